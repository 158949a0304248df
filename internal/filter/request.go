package filter

import "github.com/rebeliceyang/cardex/internal/models"

// BuildRequest turns the browse inputs into the request sent to the data
// layer. It is a pure function: the filter set is copied, never shared.
func BuildRequest(search string, filters models.FilterSet, page, pageSize int) models.CardQuery {
	return models.CardQuery{
		Search:   search,
		Filters:  filters.Clone(),
		Page:     page,
		PageSize: pageSize,
	}
}
