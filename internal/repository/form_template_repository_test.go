package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/models"
)

func newTemplateRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func templateRows(id, slug string) *sqlmock.Rows {
	fields := `[{"key":"amount","label":"Amount","type":"number","required":true},{"key":"note","label":"Note","type":"text"}]`
	return sqlmock.NewRows([]string{"id", "workspace_id", "name", "public_slug", "description", "fields", "active", "created_at", "updated_at"}).
		AddRow(id, "ws-1", "Expense Form", slug, nil, fields, true, time.Now(), time.Now())
}

func TestFormTemplateRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTemplateRepoMock(t)
	defer cleanup()
	repo := NewFormTemplateRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO form_templates")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	tpl := &models.FormTemplate{
		WorkspaceID: "ws-1",
		Name:        "Expense Form",
		PublicSlug:  "expense-form-b6x2d9",
		Fields: models.TemplateFields{
			{Key: "amount", Label: "Amount", Type: "number", Required: true},
		},
		Active: true,
	}
	require.NoError(t, repo.Create(context.Background(), tpl))
	require.NotEmpty(t, tpl.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFormTemplateRepositoryFindBySlug(t *testing.T) {
	db, mock, cleanup := newTemplateRepoMock(t)
	defer cleanup()
	repo := NewFormTemplateRepository(db)

	mock.ExpectQuery("SELECT .+ FROM form_templates WHERE public_slug =").
		WithArgs("expense-form-b6x2d9").
		WillReturnRows(templateRows("tpl-1", "expense-form-b6x2d9"))

	tpl, err := repo.FindBySlug(context.Background(), "expense-form-b6x2d9")
	require.NoError(t, err)
	require.Equal(t, "Expense Form", tpl.Name)
	require.Len(t, tpl.Fields, 2)
	require.Equal(t, "amount", tpl.Fields[0].Key)
	require.True(t, tpl.Fields[0].Required)
}

func TestFormTemplateRepositoryList(t *testing.T) {
	db, mock, cleanup := newTemplateRepoMock(t)
	defer cleanup()
	repo := NewFormTemplateRepository(db)

	mock.ExpectQuery("SELECT .+ FROM form_templates").
		WillReturnRows(templateRows("tpl-1", "expense-form-b6x2d9"))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM form_templates").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active := true
	templates, total, err := repo.List(context.Background(), models.FormTemplateFilter{
		WorkspaceID: "ws-1",
		Active:      &active,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, templates, 1)
}

func TestFormTemplateRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newTemplateRepoMock(t)
	defer cleanup()
	repo := NewFormTemplateRepository(db)

	mock.ExpectExec("UPDATE form_templates SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.FormTemplate{ID: "missing"})
	require.Error(t, err)
}
