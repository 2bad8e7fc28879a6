package data

// Normalized sort directions used by list query builders.
const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)
