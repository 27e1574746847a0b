package usecase

import (
	"context"
	"testing"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/webhooklog"
	appconfigmock "github.com/Dwooll94/SWAT-Website-25-sub001/internal/mocks/domain/appconfig"
	webhooklogmock "github.com/Dwooll94/SWAT-Website-25-sub001/internal/mocks/domain/webhooklog"
	"github.com/stretchr/testify/mock"
)

func TestWebhookService_Ingest_PingUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	configRepo := appconfigmock.NewRepository(t)
	logRepo := webhooklogmock.NewRepository(t)

	secret := "hunter2"
	body := []byte(`{"message_type":"ping","message_data":{"title":"Test Message"}}`)

	configRepo.
		On("Get", mock.Anything, appconfig.KeyTBAWebhookSecret).
		Return(appconfig.Entry{Key: appconfig.KeyTBAWebhookSecret, Value: &secret}, true, nil).
		Once()
	logRepo.
		On("Append", mock.Anything, mock.MatchedBy(func(r webhooklog.Record) bool {
			return r.ID == "wh-mock-1" && r.MessageType == webhooklog.TypePing && r.Payload == string(body)
		})).
		Return(nil).
		Once()
	logRepo.
		On("MarkProcessed", mock.Anything, "wh-mock-1", (*string)(nil)).
		Return(nil).
		Once()

	svc := NewWebhookService(configRepo, logRepo, newStubSyncRunner(), nil, fixedIDGenerator{id: "wh-mock-1"}, nil)

	receipt, err := svc.Ingest(ctx, body, signWebhookBody(secret, body))
	if err != nil {
		t.Fatalf("ingest ping: %v", err)
	}
	if receipt.Status != WebhookStatusAccepted {
		t.Fatalf("unexpected receipt status: got=%s want=%s", receipt.Status, WebhookStatusAccepted)
	}
	if receipt.MessageType != webhooklog.TypePing {
		t.Fatalf("unexpected message type: got=%s want=%s", receipt.MessageType, webhooklog.TypePing)
	}
}

func TestWebhookService_RecentDeliveries_DefaultLimitUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	configRepo := appconfigmock.NewRepository(t)
	logRepo := webhooklogmock.NewRepository(t)

	stored := []webhooklog.Record{{ID: "wh-mock-2", MessageType: webhooklog.TypeMatchScore}}
	logRepo.
		On("ListRecent", mock.Anything, 50).
		Return(stored, nil).
		Once()

	svc := NewWebhookService(configRepo, logRepo, newStubSyncRunner(), nil, fixedIDGenerator{id: "wh-mock-2"}, nil)

	got, err := svc.RecentDeliveries(ctx, 0)
	if err != nil {
		t.Fatalf("recent deliveries: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected delivery count: got=%d want=%d", len(got), 1)
	}
	if got[0].ID != "wh-mock-2" {
		t.Fatalf("unexpected delivery id: got=%s want=%s", got[0].ID, "wh-mock-2")
	}
}
