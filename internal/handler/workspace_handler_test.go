package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/service"
)

type workspaceRepoStub struct {
	byID *models.Workspace
}

func (s *workspaceRepoStub) Create(ctx context.Context, ws *models.Workspace) error { return nil }

func (s *workspaceRepoStub) FindByID(ctx context.Context, id string) (*models.Workspace, error) {
	return s.byID, nil
}

func (s *workspaceRepoStub) FindBySlug(ctx context.Context, slug string) (*models.Workspace, error) {
	return s.byID, nil
}

func (s *workspaceRepoStub) List(ctx context.Context, filter models.WorkspaceFilter) ([]models.Workspace, int, error) {
	if s.byID == nil {
		return nil, 0, nil
	}
	return []models.Workspace{*s.byID}, 1, nil
}

func (s *workspaceRepoStub) Update(ctx context.Context, ws *models.Workspace) error { return nil }
func (s *workspaceRepoStub) Delete(ctx context.Context, id string) error            { return nil }

func newWorkspaceHandlerForTest(stub *workspaceRepoStub) *WorkspaceHandler {
	return NewWorkspaceHandler(service.NewWorkspaceService(stub, nil, nil))
}

func TestWorkspaceHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newWorkspaceHandlerForTest(&workspaceRepoStub{})

	payload, _ := json.Marshal(dto.CreateWorkspaceRequest{Name: "Acme Corp", Type: "CORPORATE"})
	c, w := newGinContext(http.MethodPost, "/workspaces", payload)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "acme-corp-")
}

func TestWorkspaceHandlerCreateInvalidType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newWorkspaceHandlerForTest(&workspaceRepoStub{})

	payload, _ := json.Marshal(dto.CreateWorkspaceRequest{Name: "Acme Corp", Type: "STARTUP"})
	c, w := newGinContext(http.MethodPost, "/workspaces", payload)

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkspaceHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newWorkspaceHandlerForTest(&workspaceRepoStub{byID: &models.Workspace{
		ID:   "ws-1",
		Name: "Acme Corp",
		Type: models.WorkspaceTypeCorporate,
	}})

	c, w := newGinContext(http.MethodGet, "/workspaces?type=corporate&page=1&limit=10", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Acme Corp")
}

func TestWorkspaceHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newWorkspaceHandlerForTest(&workspaceRepoStub{byID: &models.Workspace{
		ID:   "ws-1",
		Name: "Acme Corp",
	}})

	c, w := newGinContext(http.MethodGet, "/workspaces/ws-1", nil)
	c.Params = gin.Params{{Key: "workspaceId", Value: "ws-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
}
