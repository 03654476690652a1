// Package custom implements the card customization view: the artist and track grids, the
// search-select-commit modal that fills them, and the editable header labels.
//
// # Modal Flow
//
// [Controller.Open] targets one card and shows the modal. Each [Controller.QueryChanged] restarts a
// debounce window on the injected [Scheduler]; when the window settles, exactly one search is sent
// through the [services.Searcher]. Queries shorter than the minimum length never reach the network.
//
// Every new keystroke, [Controller.Open], and [Controller.Close] bumps a generation counter and
// cancels the in-flight request's context, so a slow response can never overwrite newer results.
//
// [Controller.Select] picks one result, [Controller.Commit] copies it onto the target card and
// recomputes both popularity averages over the populated cards.
//
// # Rendering
//
// The controller holds no UI. State changes are pushed to a [View] as immutable snapshots, which lets
// the terminal UI and tests observe the same sequence of states.
//
// # Headers
//
// [HeaderEditor] implements click-to-edit labels. Overrides live in a [HeaderStore]; an empty edit or
// one equal to the default removes the override instead of storing it.
package custom
