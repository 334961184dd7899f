package resolving

import (
	"context"
	"errors"
	"testing"

	"github.com/leadflow/lead-manager-api/infrastructure/repository/mocks"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"  User@Example.COM  ", "user@example.com"},
		{"maria@example.com", "maria@example.com"},
		{"MARIA@EXAMPLE.COM", "maria@example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeEmail(tt.raw))
	}
}

func TestResolveOrCreateNormalizesEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	expected := &domain.Lead{ID: "abc123", Email: "user@example.com"}

	leadRepo.EXPECT().
		UpsertLead(gomock.Any(), "user@example.com", gomock.Any()).
		Return(expected, nil)

	lead, err := service.ResolveOrCreate("  User@Example.COM  ", &domain.LeadPatch{Name: "Maria"})

	assert.NoError(t, err)
	assert.Equal(t, expected, lead)
}

func TestResolveOrCreateRejectsInvalidEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Nenhuma expectativa no repositório: email inválido nunca chega ao banco
	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	for _, raw := range []string{"", "   ", "not-an-email", "a@b", "a b@c.com"} {
		lead, err := service.ResolveOrCreate(raw, nil)
		assert.Nil(t, lead, "email %q", raw)
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", raw)
	}
}

func TestGetLeadNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	leadRepo.EXPECT().GetLeadByID("missing").Return(nil, nil)

	lead, err := service.GetLead("missing")

	assert.Nil(t, lead)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestDeduplicateLeads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	group := []*domain.Lead{
		{ID: "aaa111", Email: "x@y.com", Engagement: domain.Engagement{EmailOpenCount: 3}},
		{ID: "bbb222", Email: "X@y.com", Engagement: domain.Engagement{EmailOpenCount: 1}},
		{ID: "ccc333", Email: " x@y.com ", Engagement: domain.Engagement{WebsiteVisits: 2}},
	}

	leadRepo.EXPECT().DropEmailUniqueIndex().Return(nil)
	leadRepo.EXPECT().ListDuplicateGroups().Return([][]*domain.Lead{group}, nil)

	leadRepo.EXPECT().
		MergeInto(gomock.Any(), gomock.Any(), []string{"bbb222", "ccc333"}).
		DoAndReturn(func(ctx context.Context, survivor *domain.Lead, duplicateIDs []string) error {
			assert.Equal(t, "aaa111", survivor.ID)
			assert.Equal(t, 4, survivor.Engagement.EmailOpenCount)
			assert.Equal(t, 2, survivor.Engagement.WebsiteVisits)
			return nil
		})

	leadRepo.EXPECT().EnsureEmailUniqueIndex().Return(nil)

	report, err := service.DeduplicateLeads(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, report.GroupsMerged)
	assert.Equal(t, 2, report.LeadsRemoved)
}

func TestDeduplicateLeadsNoDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	leadRepo.EXPECT().DropEmailUniqueIndex().Return(nil)
	leadRepo.EXPECT().ListDuplicateGroups().Return([][]*domain.Lead{}, nil)
	leadRepo.EXPECT().EnsureEmailUniqueIndex().Return(nil)

	report, err := service.DeduplicateLeads(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, report.GroupsMerged)
	assert.Equal(t, 0, report.LeadsRemoved)
}

func TestDeduplicateLeadsRestoresIndexOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	group := []*domain.Lead{
		{ID: "aaa111", Email: "x@y.com"},
		{ID: "bbb222", Email: "x@y.com"},
	}

	leadRepo.EXPECT().DropEmailUniqueIndex().Return(nil)
	leadRepo.EXPECT().ListDuplicateGroups().Return([][]*domain.Lead{group}, nil)
	leadRepo.EXPECT().
		MergeInto(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("deadlock detected"))

	// Mesmo com o merge falhando, o índice único volta ao lugar
	leadRepo.EXPECT().EnsureEmailUniqueIndex().Return(nil)

	report, err := service.DeduplicateLeads(context.Background())

	assert.Nil(t, report)
	assert.Error(t, err)
}
