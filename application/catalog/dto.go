package catalog

import "orderservice/domain/catalog"

// ItemRequest Create / update item request DTO
type ItemRequest struct {
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price" binding:"min=0"`
}

// ItemResponse Item response DTO
type ItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ItemPage one page of items
type ItemPage struct {
	Items      []*ItemResponse
	Page       int
	PageSize   int
	TotalItems int64
}

// TotalPages number of pages needed for TotalItems
func (p ItemPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalItems + int64(p.PageSize) - 1) / int64(p.PageSize))
}

func toItemResponse(it *catalog.Item) *ItemResponse {
	return &ItemResponse{ID: it.ID(), Name: it.Name(), Price: it.Price()}
}
