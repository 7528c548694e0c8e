package payload

import (
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
)

type SettingResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

type SettingUpdateRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type SettingChangeResponse struct {
	Key       string  `json:"key"`
	OldValue  *string `json:"old_value"`
	NewValue  string  `json:"new_value"`
	ChangedBy string  `json:"changed_by"`
	ChangedAt string  `json:"changed_at"`
}

type SettingHistoryResponse struct {
	Key     string                  `json:"key"`
	Changes []SettingChangeResponse `json:"changes"`
}

func GetSettingResponse(setting database.Setting) SettingResponse {
	return SettingResponse{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedAt: setting.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func GetSettingChangeResponse(change database.SettingChange) SettingChangeResponse {
	return SettingChangeResponse{
		Key:       change.Key,
		OldValue:  change.OldValue,
		NewValue:  change.NewValue,
		ChangedBy: change.ChangedBy,
		ChangedAt: change.ChangedAt.UTC().Format(time.RFC3339),
	}
}
