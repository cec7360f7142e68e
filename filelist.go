package main

import (
	"fmt"

	"github.com/google/uuid"
)

// InputFile is one entry in a FileList. Preview is best effort and may
// be nil; a missing preview never blocks anything.
type InputFile struct {
	ID      string
	Name    string
	Size    int64
	Data    []byte
	Preview []byte // PNG of the first page's first image, if any
}

// FileList is an ordered, id-keyed collection of input files. Order is
// significant: it defines the page order of a merge. It is plain state
// for one caller; concurrent use needs external locking.
type FileList struct {
	files []*InputFile
}

// Add appends a file, assigns it a fresh id and tries to attach a
// preview. Returns the assigned id.
func (l *FileList) Add(name string, data []byte) string {
	f := &InputFile{
		ID:      uuid.NewString(),
		Name:    name,
		Size:    int64(len(data)),
		Data:    data,
		Preview: firstPagePreview(data),
	}
	l.files = append(l.files, f)
	return f.ID
}

// Remove deletes the file with the given id, keeping the remaining
// order intact.
func (l *FileList) Remove(id string) error {
	for i, f := range l.files {
		if f.ID == id {
			l.files = append(l.files[:i], l.files[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no file with id %s", id)
}

// Move places the file with the given id at position pos (0-based,
// clamped to the list bounds), shifting the others.
func (l *FileList) Move(id string, pos int) error {
	from := -1
	for i, f := range l.files {
		if f.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return fmt.Errorf("no file with id %s", id)
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= len(l.files) {
		pos = len(l.files) - 1
	}
	f := l.files[from]
	l.files = append(l.files[:from], l.files[from+1:]...)
	l.files = append(l.files[:pos], append([]*InputFile{f}, l.files[pos:]...)...)
	return nil
}

func (l *FileList) Len() int { return len(l.files) }

// Files returns the entries in current order.
func (l *FileList) Files() []*InputFile { return l.files }

// Buffers snapshots the list, in order, as merge engine input.
func (l *FileList) Buffers() []NamedBuffer {
	out := make([]NamedBuffer, len(l.files))
	for i, f := range l.files {
		out[i] = NamedBuffer{Name: f.Name, Data: f.Data}
	}
	return out
}

// Metas snapshots the list, in order, as validation gate input. Local
// files carry no declared media type, so it is derived from the name.
func (l *FileList) Metas() []FileMeta {
	out := make([]FileMeta, len(l.files))
	for i, f := range l.files {
		out[i] = FileMeta{Name: f.Name, Size: f.Size, ContentType: mediaTypeForName(f.Name)}
	}
	return out
}
