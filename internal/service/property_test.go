package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlr/internal/model"
	"settlr/internal/repository"
)

// fakeListingRepo keeps listings and chats in maps
type fakeListingRepo struct {
	properties map[string]*model.Property
	chats      map[string]*model.Chat
	lastPred   repository.Predicate
	created    *model.Property
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		properties: map[string]*model.Property{},
		chats:      map[string]*model.Chat{},
	}
}

func (f *fakeListingRepo) CreateProperty(_ context.Context, p *model.Property) error {
	p.ID = "new-id"
	f.created = p
	f.properties[p.ID] = p
	return nil
}

func (f *fakeListingRepo) UpdateProperty(_ context.Context, id, ownerID string, p *model.Property) (*model.Property, error) {
	existing, ok := f.properties[id]
	if !ok || existing.OwnerID != ownerID {
		return nil, nil
	}
	updated := *p
	updated.ID, updated.OwnerID = id, ownerID
	f.properties[id] = &updated
	return &updated, nil
}

func (f *fakeListingRepo) DeleteProperty(_ context.Context, id, ownerID string) (bool, error) {
	existing, ok := f.properties[id]
	if !ok || existing.OwnerID != ownerID {
		return false, nil
	}
	delete(f.properties, id)
	return true, nil
}

func (f *fakeListingRepo) SetListingStatus(_ context.Context, id string, status model.ListingStatus) (bool, error) {
	p, ok := f.properties[id]
	if !ok {
		return false, nil
	}
	p.Verification.ListingStatus = status
	return true, nil
}

func (f *fakeListingRepo) ListProperties(_ context.Context, pred repository.Predicate) ([]model.Property, error) {
	f.lastPred = pred
	return []model.Property{}, nil
}

func (f *fakeListingRepo) GetPropertyByID(_ context.Context, id string) (*model.Property, error) {
	return f.properties[id], nil
}

func (f *fakeListingRepo) SimilarProperties(_ context.Context, _ string, limit int) ([]model.Property, error) {
	return make([]model.Property, 0, limit), nil
}

func (f *fakeListingRepo) StartChat(_ context.Context, propertyID, tenantID, ownerID string) (*model.Chat, error) {
	chat := &model.Chat{ID: "chat-1", PropertyID: propertyID, TenantID: tenantID, OwnerID: ownerID}
	f.chats[chat.ID] = chat
	return chat, nil
}

func (f *fakeListingRepo) GetChat(_ context.Context, id string) (*model.Chat, error) {
	return f.chats[id], nil
}

func (f *fakeListingRepo) AppendChatMessage(_ context.Context, chatID, senderID, text string) (*model.ChatMessage, error) {
	return &model.ChatMessage{ChatID: chatID, SenderID: senderID, Text: text}, nil
}

var (
	ownerIdentity  = &model.Identity{SubjectID: "owner-uid", Name: "Asha", Phone: ptr("9000000001")}
	tenantIdentity = &model.Identity{SubjectID: "tenant-uid", Name: "Kiran"}
)

func TestCreateListing_FillsOwnerAndCanonicalizes(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewPropertyService(repo)

	p := &model.Property{
		ID:           "client-chosen",
		Title:        ptr("PG near campus"),
		Amenities:    []string{"Wi-Fi", "Power Backup", "wifi"},
		Verification: model.Verification{ListingStatus: model.ListingVerified},
	}
	created, err := svc.CreateListing(context.Background(), ownerIdentity, p)
	require.NoError(t, err)

	assert.Equal(t, "new-id", created.ID)
	assert.Equal(t, "owner-uid", created.OwnerID)
	assert.Equal(t, "Asha", *created.OwnerName)
	assert.Equal(t, "9000000001", *created.OwnerPhone)
	assert.Equal(t, []string{"wifi", "power backup"}, []string(created.Amenities))
	assert.Equal(t, model.ListingPending, created.Verification.ListingStatus, "clients cannot self-verify")
}

func TestCreateListing_Validation(t *testing.T) {
	svc := NewPropertyService(newFakeListingRepo())

	_, err := svc.CreateListing(context.Background(), ownerIdentity, &model.Property{})
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = svc.CreateListing(context.Background(), ownerIdentity, &model.Property{
		Title:   ptr("x"),
		Pricing: model.Pricing{Rent: float64Ptr(-1)},
	})
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestUpdateAndDeleteListing_OwnerOnly(t *testing.T) {
	repo := newFakeListingRepo()
	repo.properties["p1"] = &model.Property{ID: "p1", OwnerID: "owner-uid", Title: ptr("old")}
	svc := NewPropertyService(repo)
	ctx := context.Background()

	_, err := svc.UpdateListing(ctx, tenantIdentity, "p1", &model.Property{Title: ptr("hijack")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateListing(ctx, ownerIdentity, "missing", &model.Property{Title: ptr("new")})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UpdateListing(ctx, ownerIdentity, "p1", &model.Property{Title: ptr("new"), Amenities: []string{"Lift"}})
	require.NoError(t, err)
	assert.Equal(t, "new", *updated.Title)
	assert.Equal(t, []string{"lift"}, []string(updated.Amenities))

	assert.ErrorIs(t, svc.DeleteListing(ctx, tenantIdentity, "p1"), ErrForbidden)
	require.NoError(t, svc.DeleteListing(ctx, ownerIdentity, "p1"))
	assert.ErrorIs(t, svc.DeleteListing(ctx, ownerIdentity, "p1"), ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	repo := newFakeListingRepo()
	repo.properties["p1"] = &model.Property{ID: "p1"}
	svc := NewPropertyService(repo)

	require.NoError(t, svc.SetStatus(context.Background(), "p1", model.ListingVerified))
	assert.Equal(t, model.ListingVerified, repo.properties["p1"].Verification.ListingStatus)

	assert.ErrorIs(t, svc.SetStatus(context.Background(), "p1", "Approved"), ErrMalformedInput)
	assert.ErrorIs(t, svc.SetStatus(context.Background(), "nope", model.ListingFlagged), ErrNotFound)
}

func TestListQueries(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewPropertyService(repo)
	ctx := context.Background()

	_, err := svc.ListVerified(ctx)
	require.NoError(t, err)
	assert.Equal(t, "listing_status = $1", repo.lastPred.Where())

	_, err = svc.ListByCity(ctx, " Pune ")
	require.NoError(t, err)
	assert.Equal(t, "listing_status = $1 AND (city ILIKE $2)", repo.lastPred.Where())
	assert.Equal(t, "%Pune%", repo.lastPred.Args[1])

	_, err = svc.ListByCity(ctx, "  ")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = svc.ListByOwner(ctx, "owner-uid")
	require.NoError(t, err)
	assert.Equal(t, "owner_id = $1", repo.lastPred.Where())
}

func TestSimilar_UnknownListing(t *testing.T) {
	svc := NewPropertyService(newFakeListingRepo())

	_, err := svc.Similar(context.Background(), "missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestThreadService(t *testing.T) {
	repo := newFakeListingRepo()
	repo.properties["p1"] = &model.Property{ID: "p1", OwnerID: "owner-uid"}
	svc := NewThreadService(repo)
	ctx := context.Background()

	_, err := svc.Start(ctx, ownerIdentity, "p1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Start(ctx, tenantIdentity, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	chat, err := svc.Start(ctx, tenantIdentity, "p1")
	require.NoError(t, err)
	assert.Equal(t, "owner-uid", chat.OwnerID)
	assert.Equal(t, "tenant-uid", chat.TenantID)

	_, err = svc.Get(ctx, &model.Identity{SubjectID: "stranger"}, chat.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	msg, err := svc.Send(ctx, ownerIdentity, chat.ID, "  Available from Monday  ")
	require.NoError(t, err)
	assert.Equal(t, "Available from Monday", msg.Text)
	assert.Equal(t, "owner-uid", msg.SenderID)

	_, err = svc.Send(ctx, tenantIdentity, chat.ID, "   ")
	assert.ErrorIs(t, err, ErrMalformedInput)
}
