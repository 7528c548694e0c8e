package queries

import (
	"gorm.io/gorm"
)

// ApplyIncidentFilters The given query master table is "block_incidents"
func ApplyIncidentFilters(filters *IncidentFilters, query *gorm.DB) {
	if filters == nil {
		return
	}

	if filters.GetIP() != "" {
		query.Where("LOWER(block_incidents.ip_address) LIKE ?", "%"+filters.GetIP()+"%")
	}

	if filters.GetReason() != "" {
		query.Where("LOWER(block_incidents.block_reason) LIKE ?", "%"+filters.GetReason()+"%")
	}

	if filters.GetText() != "" {
		query.
			Where("LOWER(block_incidents.incident_id) LIKE ? OR LOWER(block_incidents.admin_notes) LIKE ?",
				"%"+filters.GetText()+"%",
				"%"+filters.GetText()+"%",
			)
	}

	if filters.Resolved != nil {
		query.Where("block_incidents.resolved = ?", *filters.Resolved)
	}
}
