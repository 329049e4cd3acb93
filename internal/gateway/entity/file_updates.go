package entity

// FileEncoding marks how FileUpdate.Content is encoded.
type FileEncoding string

const (
	EncodingUTF8   FileEncoding = ""
	EncodingBase64 FileEncoding = "base64"
)

// FileUpdate creates or overwrites one file.
type FileUpdate struct {
	Path     string       `json:"path"`
	Content  string       `json:"content"`
	Encoding FileEncoding `json:"encoding,omitempty"`
}

// FileDelete removes one file.
type FileDelete struct {
	Path string `json:"path"`
}

// FileUpdates is one batch of file operations produced by renderers.
type FileUpdates struct {
	CreateOrUpdate []FileUpdate `json:"createOrUpdate"`
	Delete         []FileDelete `json:"delete"`
}

// IsEmpty reports whether the batch carries no operation.
func (u FileUpdates) IsEmpty() bool {
	return len(u.CreateOrUpdate) == 0 && len(u.Delete) == 0
}

// Merge appends other into u. Later writes to the same path replace earlier
// ones in place; deletes are deduplicated.
func (u *FileUpdates) Merge(other FileUpdates) {
	index := make(map[string]int, len(u.CreateOrUpdate))
	for i, f := range u.CreateOrUpdate {
		index[f.Path] = i
	}
	for _, f := range other.CreateOrUpdate {
		if i, ok := index[f.Path]; ok {
			u.CreateOrUpdate[i] = f
			continue
		}
		index[f.Path] = len(u.CreateOrUpdate)
		u.CreateOrUpdate = append(u.CreateOrUpdate, f)
	}
	seen := make(map[string]struct{}, len(u.Delete))
	for _, d := range u.Delete {
		seen[d.Path] = struct{}{}
	}
	for _, d := range other.Delete {
		if _, ok := seen[d.Path]; ok {
			continue
		}
		seen[d.Path] = struct{}{}
		u.Delete = append(u.Delete, d)
	}
}

// ExistingFile is the current content of a path in the repository.
type ExistingFile struct {
	Path    string
	Content string
}
