package handler

import (
	"log/slog"
	baseHttp "net/http"
	"strings"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/handler/payload"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

const settingHistoryLimit = 20

// SettingsHandler exposes the operator-tunable knobs and their audit
// trail. Every write lands in the change history with the acting account.
type SettingsHandler struct {
	Settings  repository.Settings
	Validator *portal.Validator

	now func() time.Time
}

func MakeSettingsHandler(settings repository.Settings, validator *portal.Validator) SettingsHandler {
	return SettingsHandler{
		Settings:  settings,
		Validator: validator,
		now:       time.Now,
	}
}

// Show returns one setting by key.
func (h *SettingsHandler) Show(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		return endpoint.BadRequestError("missing setting key")
	}

	setting := h.Settings.Get(key)
	if setting == nil {
		return endpoint.NotFound("setting not found")
	}

	return respondNoCache(w, r, payload.GetSettingResponse(*setting))
}

// Update writes a setting and records who changed it.
func (h *SettingsHandler) Update(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	request, closer, err := endpoint.ParseRequestBody[payload.SettingUpdateRequest](r)
	defer closer()

	if err != nil {
		slog.Error("failed to parse setting update", "err", err)

		return endpoint.BadRequestError("invalid request body")
	}

	if rejected, _ := h.Validator.Rejects(request); rejected {
		return endpoint.UnprocessableEntity("invalid setting update", asValidationData(h.Validator.GetErrors()))
	}

	attrs := database.SettingAttrs{
		Key:       request.Key,
		Value:     request.Value,
		ChangedBy: adminAccountFrom(r),
	}

	setting, err := h.Settings.Upsert(attrs, h.now())
	if err != nil {
		return endpoint.LogInternalError("could not update setting", err)
	}

	return respondNoCache(w, r, payload.GetSettingResponse(*setting))
}

// History lists a key's most recent changes, newest first.
func (h *SettingsHandler) History(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		return endpoint.BadRequestError("missing setting key")
	}

	changes, err := h.Settings.History(key, settingHistoryLimit)
	if err != nil {
		return endpoint.LogInternalError("could not read setting history", err)
	}

	data := payload.SettingHistoryResponse{
		Key:     key,
		Changes: make([]payload.SettingChangeResponse, 0, len(changes)),
	}

	for _, change := range changes {
		data.Changes = append(data.Changes, payload.GetSettingChangeResponse(change))
	}

	return respondNoCache(w, r, data)
}
