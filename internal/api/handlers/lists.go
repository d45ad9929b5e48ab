package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mshelton/car-value-tracker/internal/auth"
	"github.com/mshelton/car-value-tracker/internal/codec"
	"github.com/mshelton/car-value-tracker/internal/metrics"
	"github.com/mshelton/car-value-tracker/internal/store"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// ListsHandler handles saved list operations.
type ListsHandler struct {
	store store.Store
	auth  *auth.Service
}

// NewListsHandler creates a new ListsHandler.
func NewListsHandler(s store.Store, a *auth.Service) *ListsHandler {
	return &ListsHandler{store: s, auth: a}
}

// --- Input/Output types ---

// ListListsOutput is the response for listing saved lists.
type ListListsOutput struct {
	Body struct {
		Lists []domain.SavedList `json:"lists"`
	}
}

// GetListInput is the input for getting a saved list.
type GetListInput struct {
	Name string `path:"name" doc:"Saved list name"`
}

// GetListOutput is the response for getting a saved list.
type GetListOutput struct {
	Body domain.SavedList
}

// SaveListInput is the input for saving a list of cars under a name.
type SaveListInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Name          string `path:"name"    doc:"Saved list name" minLength:"1"`
	Replace       bool   `query:"replace" doc:"Overwrite an existing list with the same name"`
	Body          struct {
		Listings []domain.Listing `json:"listings"`
	}
}

// SaveListOutput is the response for saving a list.
type SaveListOutput struct {
	Body domain.SavedList
}

// DeleteListInput is the input for deleting a saved list.
type DeleteListInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Name          string `path:"name" doc:"Saved list name"`
}

// ImportListsInput is the input for importing list payloads. The body is
// the raw export document.
type ImportListsInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	RawBody       []byte `contentType:"application/json"`
}

// ImportListsOutput reports the names the imported lists were stored under.
type ImportListsOutput struct {
	Body struct {
		Imported []string `json:"imported"`
	}
}

// ExportListsOutput carries the export document.
type ExportListsOutput struct {
	Body json.RawMessage
}

// --- Handlers ---

// ListLists returns every saved list.
func (h *ListsHandler) ListLists(
	ctx context.Context,
	_ *struct{},
) (*ListListsOutput, error) {
	lists, err := h.store.ListSavedLists(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing saved lists: " + err.Error())
	}
	if lists == nil {
		lists = []domain.SavedList{}
	}

	resp := &ListListsOutput{}
	resp.Body.Lists = lists
	return resp, nil
}

// GetList returns a saved list by name.
func (h *ListsHandler) GetList(
	ctx context.Context,
	input *GetListInput,
) (*GetListOutput, error) {
	sl, err := h.store.GetSavedList(ctx, input.Name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("saved list not found")
		}
		return nil, huma.Error500InternalServerError("fetching saved list: " + err.Error())
	}
	return &GetListOutput{Body: *sl}, nil
}

// SaveList stores the body's listings under the path name. Without
// replace=true a name collision is rejected so a typo cannot silently
// overwrite an existing list.
func (h *ListsHandler) SaveList(
	ctx context.Context,
	input *SaveListInput,
) (*SaveListOutput, error) {
	if err := authorize(ctx, h.auth, input.Authorization); err != nil {
		return nil, err
	}

	if !input.Replace {
		_, err := h.store.GetSavedList(ctx, input.Name)
		if err == nil {
			return nil, huma.Error409Conflict(
				"a saved list named " + input.Name + " already exists; pass replace=true to overwrite")
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error500InternalServerError("checking saved list: " + err.Error())
		}
	}

	if err := h.store.UpsertSavedList(ctx, input.Name, input.Body.Listings); err != nil {
		return nil, huma.Error500InternalServerError("saving list: " + err.Error())
	}

	resp := &SaveListOutput{}
	resp.Body = domain.SavedList{Name: input.Name, Listings: input.Body.Listings}
	if resp.Body.Listings == nil {
		resp.Body.Listings = []domain.Listing{}
	}
	return resp, nil
}

// DeleteList removes a saved list by name.
func (h *ListsHandler) DeleteList(
	ctx context.Context,
	input *DeleteListInput,
) (*struct{}, error) {
	if err := authorize(ctx, h.auth, input.Authorization); err != nil {
		return nil, err
	}

	if err := h.store.DeleteSavedList(ctx, input.Name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("saved list not found")
		}
		return nil, huma.Error500InternalServerError("deleting saved list: " + err.Error())
	}
	return &struct{}{}, nil
}

// ImportLists validates and merges an export document. The whole payload
// is validated before anything is stored; name collisions are renamed,
// never overwritten.
func (h *ListsHandler) ImportLists(
	ctx context.Context,
	input *ImportListsInput,
) (*ImportListsOutput, error) {
	if err := authorize(ctx, h.auth, input.Authorization); err != nil {
		return nil, err
	}

	lists, err := codec.Decode(input.RawBody)
	if err != nil {
		metrics.ListImportFailuresTotal.Inc()
		return nil, huma.Error422UnprocessableEntity("invalid import payload: " + err.Error())
	}

	existing, err := h.store.ListSavedLists(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing saved lists: " + err.Error())
	}
	taken := make([]string, 0, len(existing))
	for _, sl := range existing {
		taken = append(taken, sl.Name)
	}

	names := make([]string, 0, len(lists))
	for _, sl := range lists {
		name := codec.UniqueName(sl.Name, func(n string) bool {
			return slices.Contains(taken, n)
		})
		if err := h.store.UpsertSavedList(ctx, name, sl.Listings); err != nil {
			return nil, huma.Error500InternalServerError("storing imported list: " + err.Error())
		}
		taken = append(taken, name)
		names = append(names, name)
	}

	metrics.ListImportsTotal.Inc()

	resp := &ImportListsOutput{}
	resp.Body.Imported = names
	return resp, nil
}

// ExportLists renders every saved list in interchange form.
func (h *ListsHandler) ExportLists(
	ctx context.Context,
	_ *struct{},
) (*ExportListsOutput, error) {
	lists, err := h.store.ListSavedLists(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing saved lists: " + err.Error())
	}

	data, err := codec.Encode(lists)
	if err != nil {
		return nil, huma.Error500InternalServerError("encoding export: " + err.Error())
	}

	metrics.ListExportsTotal.Inc()
	return &ExportListsOutput{Body: data}, nil
}

// RegisterListRoutes registers saved list endpoints with the Huma API.
func RegisterListRoutes(api huma.API, h *ListsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-saved-lists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List saved lists",
		Description: "Returns every saved list with its listings.",
		Tags:        []string{"lists"},
	}, h.ListLists)

	huma.Register(api, huma.Operation{
		OperationID: "get-saved-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{name}",
		Summary:     "Get a saved list",
		Description: "Returns a saved list by name.",
		Tags:        []string{"lists"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetList)

	huma.Register(api, huma.Operation{
		OperationID: "save-list",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/{name}",
		Summary:     "Save a list",
		Description: "Stores the given listings under a name. Name collisions are rejected unless replace=true.",
		Tags:        []string{"lists"},
		Errors:      []int{http.StatusUnauthorized, http.StatusConflict},
	}, h.SaveList)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-saved-list",
		Method:        http.MethodDelete,
		Path:          "/api/v1/lists/{name}",
		Summary:       "Delete a saved list",
		Description:   "Deletes a saved list by name.",
		Tags:          []string{"lists"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusUnauthorized, http.StatusNotFound},
	}, h.DeleteList)

	huma.Register(api, huma.Operation{
		OperationID: "import-lists",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/import",
		Summary:     "Import lists",
		Description: "Validates and merges an export document. Name collisions are renamed, never overwritten.",
		Tags:        []string{"lists"},
		Errors:      []int{http.StatusUnauthorized, http.StatusUnprocessableEntity},
	}, h.ImportLists)

	huma.Register(api, huma.Operation{
		OperationID: "export-lists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/export",
		Summary:     "Export lists",
		Description: "Renders every saved list in the interchange format.",
		Tags:        []string{"lists"},
	}, h.ExportLists)
}
