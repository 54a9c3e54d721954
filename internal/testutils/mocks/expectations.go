// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	charactermock "github.com/KirkDiggler/rpg-sheet/internal/repositories/character/mock"
)

// RecordFor matches an upsert input whose record has the given id and owner
func RecordFor(id, userID string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		input, ok := x.(character.UpsertInput)
		return ok && input.Record != nil && input.Record.ID == id && input.Record.UserID == userID
	})
}

// ExpectUpsert sets up a mock expectation for upserting the record with id
func ExpectUpsert(mockRepo *charactermock.MockRepository, id, userID string, err error) *gomock.Call {
	call := mockRepo.EXPECT().Upsert(gomock.Any(), RecordFor(id, userID))
	if err != nil {
		return call.Return(nil, err)
	}
	return call.DoAndReturn(func(_ context.Context, input character.UpsertInput) (*character.UpsertOutput, error) {
		return &character.UpsertOutput{Record: input.Record, Changed: true}, nil
	})
}

// ExpectList sets up a mock expectation for listing a user's rows
func ExpectList(
	ctx context.Context, mockRepo *charactermock.MockRepository,
	userID string, records []*character.Record, err error,
) *gomock.Call {
	if err != nil {
		return mockRepo.EXPECT().
			List(ctx, character.ListInput{UserID: userID}).
			Return(nil, err)
	}
	return mockRepo.EXPECT().
		List(ctx, character.ListInput{UserID: userID}).
		Return(&character.ListOutput{Records: records}, nil)
}

// ExpectDelete sets up a mock expectation for deleting a row
func ExpectDelete(mockRepo *charactermock.MockRepository, id, userID string, err error) *gomock.Call {
	call := mockRepo.EXPECT().Delete(gomock.Any(), character.DeleteInput{ID: id, UserID: userID})
	if err != nil {
		return call.Return(nil, err)
	}
	return call.Return(&character.DeleteOutput{}, nil)
}

// ExpectFindByPublicCode sets up a mock expectation for a public code lookup
func ExpectFindByPublicCode(
	mockRepo *charactermock.MockRepository, code string, record *character.Record, err error,
) *gomock.Call {
	call := mockRepo.EXPECT().FindByPublicCode(gomock.Any(), character.FindByPublicCodeInput{Code: code})
	if err != nil {
		return call.Return(nil, err)
	}
	return call.Return(&character.FindByPublicCodeOutput{Record: record}, nil)
}

// ExpectSubscribe sets up a subscription whose feed is the given channel.
// Close may be called any number of times.
func ExpectSubscribe(
	ctrl *gomock.Controller, mockRepo *charactermock.MockRepository,
	id string, feed <-chan *character.Record,
) *charactermock.MockSubscription {
	sub := charactermock.NewMockSubscription(ctrl)
	sub.EXPECT().Updates().Return(feed).AnyTimes()
	sub.EXPECT().Close().Return(nil).AnyTimes()

	mockRepo.EXPECT().
		Subscribe(gomock.Any(), character.SubscribeInput{ID: id}).
		Return(&character.SubscribeOutput{Subscription: sub}, nil)
	return sub
}
