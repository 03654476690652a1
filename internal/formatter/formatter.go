// package formatter provides functions to export the custom board to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
)

// Format is an export file format.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
)

// ParseFormat converts a --format flag value into a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (expected json, csv, markdown, txt)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

// Export renders export in format.
func Export(export *models.BoardExport, format Format) ([]byte, error) {
	switch format {
	case JSON:
		return ExportToJSON(export)
	case CSV:
		return ExportToCSV(export)
	case Markdown:
		return ExportToMarkdown(export, "")
	case Text:
		return ExportToText(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToJSON renders the whole board, placeholders included, as indented JSON.
func ExportToJSON(export *models.BoardExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// ExportToCSV converts the populated cards to CSV with columns: Type, Slot, ID, Title, Tags, Popularity, Stat, Link
func ExportToCSV(export *models.BoardExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Type", "Slot", "ID", "Title", "Tags", "Popularity", "Stat", "Link"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, card := range export.Populated() {
		record := []string{
			card.Type.String(),
			strconv.Itoa(card.Index + 1),
			card.ItemID,
			card.Title,
			strings.Join(card.Tags, "; "),
			strconv.Itoa(card.Popularity),
			card.SecondaryStat,
			card.Link,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts the board to Markdown with an optional story image
func ExportToMarkdown(export *models.BoardExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Title))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Story](%s)\n\n", imageFilename))
	}

	sections := []struct {
		header  string
		label   string
		average float64
		cards   []models.Card
	}{
		{export.ArtistsHeader, "Artist", export.ArtistAverage, export.Artists},
		{export.TracksHeader, "Track", export.TrackAverage, export.Tracks},
	}

	for _, s := range sections {
		buf.WriteString(fmt.Sprintf("## %s\n\n", s.header))
		buf.WriteString(fmt.Sprintf("**Avg Top %s Popularity**: %s/100\n\n", s.label, strconv.FormatFloat(s.average, 'f', -1, 64)))

		n := 0
		for _, card := range s.cards {
			if !card.Populated {
				continue
			}
			n++
			buf.WriteString(fmt.Sprintf("%d. [%s](%s) - %s (%s, %s)\n",
				card.Index+1, card.Title, card.Link, strings.Join(card.Tags, ", "), card.PopularityStat, card.SecondaryStat))
		}
		if n == 0 {
			buf.WriteString("_No picks yet._\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts the board to plain text
func ExportToText(export *models.BoardExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n\n", export.Title))

	grids := []struct {
		header  string
		average float64
		cards   []models.Card
	}{
		{export.ArtistsHeader, export.ArtistAverage, export.Artists},
		{export.TracksHeader, export.TrackAverage, export.Tracks},
	}

	for _, g := range grids {
		buf.WriteString(fmt.Sprintf("%s (avg popularity %s/100)\n", g.header, strconv.FormatFloat(g.average, 'f', -1, 64)))
		for _, card := range g.cards {
			if card.Populated {
				buf.WriteString(fmt.Sprintf("%d. %s - %s\n", card.Index+1, card.Title, card.PopularityStat))
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// DefaultFilename returns "intune_board.{ext}".
func DefaultFilename(format Format) string {
	return "intune_board." + format.Extension()
}

// WriteExport renders export in format and writes it to path.
//
// Defaults to [DefaultFilename] when path is empty.
func WriteExport(export *models.BoardExport, format Format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(format)
	}

	data, err := Export(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	StoryImage string
}

// WriteMarkdownExport exports the board to Markdown in a dedicated directory.
//
// Creates {dir}/README.md and, when storyImage is non-empty, {dir}/story.png referenced from the README.
// Directory name defaults to "intune_board".
func WriteMarkdownExport(export *models.BoardExport, outputDir string, storyImage []byte) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "intune_board"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var imageFilename string
	if len(storyImage) > 0 {
		imageFilename = "story.png"
		imagePath := filepath.Join(outputDir, imageFilename)
		if err := os.WriteFile(imagePath, storyImage, 0644); err != nil {
			return nil, fmt.Errorf("failed to save story image: %w", err)
		}
		result.StoryImage = imagePath
		result.Files = append(result.Files, imagePath)
	}

	mdData, err := ExportToMarkdown(export, imageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}
