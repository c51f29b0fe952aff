package host

// FolderConnection is one catalog folder connection in a project. Within a
// project's connection list exactly one entry has IsHome set, and its Path
// is the project's home folder.
type FolderConnection struct {
	Path   string
	Alias  string
	IsHome bool
}
