package etprimitive

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Pagination 分页参数
type Pagination struct {
	Page  int
	Limit int
	Total int64
}

// Normalize 修正非法分页参数（页码从 1 开始）
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset 当前页的偏移量
func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}
