package sorter

import (
	"fmt"
	"strings"

	"sortly/internal/chunk"
	"sortly/pkg/types"
)

// systemInstruction tells the model how to group a flat listing.
const systemInstruction = `You are an intelligent folder organizer AI agent working with local files. The user will provide:
A path to a root folder (root_folder_path).
A flat list of file names (not paths, and no metadata).
Your task is to analyze the list of file names and create an optimal folder_structure, which is a dictionary mapping folder names to lists of files that belong in them.
Use your best judgment to group files logically. Consider factors such as:
  - File type (e.g., PDFs, images, code, audio)
  - Common prefixes or keywords in file names (e.g., invoice_, projectX_, photo_)
  - Natural groupings (e.g., documents vs. media vs. backups).
You will then call the tool to physically reorganize the files on the local system.
Important Notes:
  - Folder names should be descriptive (Maximum 3 words) and meaningful, not just file extensions.
  - Keep original file names intact; do not rename files.
  - If there are existing folders do not rename or move them. Try to put the files in the existing folders if it matches the context.
  - If there are files that don't clearly belong in a category, place them into a "Misc" folder. But before putting any file there check if it can be put in any existing folder.
  - You do not have to arrange the existing folders. Do not include them unless they can be combined in a meaningful way.`

// BuildPrompt renders one batch as a user message:
//
//	Sort this folder: /home/me/Downloads with the contents: ['a.txt', 'b.jpg']. extra text
func BuildPrompt(req types.SortRequest) string {
	prompt := fmt.Sprintf("Sort this folder: %s with the contents: %s.", req.RootFolderPath, formatNames(req.FileNames))
	if text := strings.TrimSpace(req.UserInstructions); text != "" {
		prompt += " " + text
	}
	return prompt
}

// Prompts batches names and renders one prompt per batch.
func Prompts(root string, names []string, userText string, batchSize int) []string {
	batches := chunk.Chunk(names, batchSize)
	prompts := make([]string, 0, len(batches))
	for _, batch := range batches {
		prompts = append(prompts, BuildPrompt(types.SortRequest{
			RootFolderPath:   root,
			FileNames:        batch,
			UserInstructions: userText,
		}))
	}
	return prompts
}

// formatNames writes names as a bracketed list of quoted strings, quoting
// each the way the model is used to seeing Python list literals.
func formatNames(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteName(name)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func quoteName(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}
