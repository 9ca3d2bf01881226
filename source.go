package scope

// Source is a raw file-content blob. It carries no metadata of its own;
// File entries on a Version give it a name and a relative path.
type Source struct {
	Content []byte `json:"content"`
}

func (s *Source) ObjectTag() Tag { return TagSource }
