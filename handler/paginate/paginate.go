package paginate

import (
	"net/url"
	"strconv"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository/pagination"
)

func MakeFrom(url url.Values) pagination.Paginate {
	page := pagination.MinPage
	pageSize := pagination.MaxLimit

	if url.Get("page") != "" {
		if tPage, err := strconv.Atoi(url.Get("page")); err == nil {
			page = tPage
		}
	}

	if url.Get("limit") != "" {
		if limit, err := strconv.Atoi(url.Get("limit")); err == nil {
			pageSize = limit
		}
	}

	if page < pagination.MinPage {
		page = pagination.MinPage
	}

	if pageSize > pagination.MaxLimit || pageSize < 1 {
		pageSize = pagination.MaxLimit
	}

	return pagination.Paginate{
		Page:  page,
		Limit: pageSize,
	}
}

// MakeIncidentsFrom clamps harder than MakeFrom: incident rows carry
// operator notes, so admin pages stay small.
func MakeIncidentsFrom(url url.Values) pagination.Paginate {
	paginate := MakeFrom(url)

	if paginate.Limit > pagination.IncidentsMaxLimit {
		paginate.Limit = pagination.IncidentsMaxLimit
	}

	return paginate
}
