package repository

// Pagination translates page/limit query parameters into LIMIT/OFFSET.
type Pagination struct {
	Skip int
	Take int
}
