package custom

import "github.com/desertthunder/intune/internal/models"

// View receives state changes from a [Controller].
//
// Methods are called with the controller's lock held, possibly from a timer goroutine.
// Implementations must not block and must not call back into the controller.
type View interface {
	RenderModal(m Modal)
	RenderCard(c models.Card)
	RenderAverages(a Averages)
}

type nopView struct{}

func (nopView) RenderModal(Modal)       {}
func (nopView) RenderCard(models.Card)  {}
func (nopView) RenderAverages(Averages) {}
