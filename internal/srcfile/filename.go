package srcfile

// FileNameKind tags the variant of a FileName, mirroring the original's
// tagged-union FileName enum (Real/Anon/Custom/Url/Internal/...).
type FileNameKind uint8

const (
	// FileNameReal is a real path on disk, subject to path-prefix remapping
	// (§4.8).
	FileNameReal FileNameKind = iota
	// FileNameAnon is a file with no durable name (e.g. an eval'd string).
	FileNameAnon
	// FileNameCustom is a caller-supplied synthetic name.
	FileNameCustom
	// FileNameURL is a name that is itself a URL.
	FileNameURL
	// FileNameInternal names compiler-internal synthetic source (runtime
	// helpers, injected preludes). Internal files are skipped by the
	// emitter's ignore_list default (§4.7) and never have sourcesContent
	// inlined by default.
	FileNameInternal
)

func (k FileNameKind) String() string {
	switch k {
	case FileNameReal:
		return "real"
	case FileNameAnon:
		return "anon"
	case FileNameCustom:
		return "custom"
	case FileNameURL:
		return "url"
	case FileNameInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// FileName is a small tagged-union value type: Kind selects the variant,
// Path carries its payload (empty for Anon). Two FileNames are equal iff
// both Kind and Path match, which is what StableSourceFileId hashes over.
type FileName struct {
	Kind FileNameKind
	Path string
}

func Real(path string) FileName     { return FileName{Kind: FileNameReal, Path: path} }
func Anon() FileName                { return FileName{Kind: FileNameAnon} }
func Custom(name string) FileName   { return FileName{Kind: FileNameCustom, Path: name} }
func URL(url string) FileName       { return FileName{Kind: FileNameURL, Path: url} }
func Internal(name string) FileName { return FileName{Kind: FileNameInternal, Path: name} }

func (n FileName) String() string {
	if n.Kind == FileNameAnon {
		return "<anon>"
	}
	return n.Path
}

// IsReal reports whether n is the Real variant, the only one path-prefix
// remapping (§4.8) ever applies to.
func (n FileName) IsReal() bool {
	return n.Kind == FileNameReal
}
