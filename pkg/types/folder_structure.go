package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FolderAssignment is one entry of a FolderStructure: a target folder and
// the file names that belong in it.
type FolderAssignment struct {
	Folder string   `json:"folder" validate:"safename"`
	Files  []string `json:"files" validate:"dive,safename"`
}

// FolderStructure maps folder names to the files that should be moved into
// them. It is a slice rather than a map because moves happen in the order the
// model listed the folders. On the wire it is a plain JSON object.
type FolderStructure []FolderAssignment

// UnmarshalJSON decodes a JSON object of folder name to array of file names,
// keeping key order. A repeated key keeps its first position and takes the
// last value. Any value that is not an array of strings is rejected.
func (fs *FolderStructure) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("folder_structure: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("folder_structure must be an object, got %v", tok)
	}

	out := FolderStructure{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("folder_structure: %w", err)
		}
		folder, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("folder_structure[%q]: %w", folder, err)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("folder_structure[%q] must be an array of file names, got null", folder)
		}
		var files []string
		if err := json.Unmarshal(raw, &files); err != nil {
			return fmt.Errorf("folder_structure[%q] must be an array of file names: %w", folder, err)
		}

		if i, seen := index[folder]; seen {
			out[i].Files = files
			continue
		}
		index[folder] = len(out)
		out = append(out, FolderAssignment{Folder: folder, Files: files})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("folder_structure: %w", err)
	}

	*fs = out
	return nil
}

// MarshalJSON encodes the structure as a JSON object in folder order.
func (fs FolderStructure) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Folder)
		if err != nil {
			return nil, err
		}
		files := a.Files
		if files == nil {
			files = []string{}
		}
		val, err := json.Marshal(files)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FileCount returns the number of file references across all folders.
func (fs FolderStructure) FileCount() int {
	n := 0
	for _, a := range fs {
		n += len(a.Files)
	}
	return n
}

// SortRequest is what one model call is asked to organize: a batch of names
// found directly under RootFolderPath.
type SortRequest struct {
	RootFolderPath   string
	FileNames        []string
	UserInstructions string
}
