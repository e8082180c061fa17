package service

// Pagination 页码从 1 开始
type Pagination struct {
	Page     int
	PageSize int
}

// Normalize 修正非法页码并限制 pageSize 上限
func (p Pagination) Normalize(defaultSize, maxSize int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.PageSize }
