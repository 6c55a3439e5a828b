package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/cryptox"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/opsapi"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/adapters"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/auth"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/queue"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/repomanager"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "handler-secret"

var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

type opsFixture struct {
	client *opsapi.Client
	svc    Services
}

func newOpsFixture(t *testing.T) *opsFixture {
	t.Helper()

	vault, err := cryptox.NewVault("test-encryption-secret")
	require.NoError(t, err)

	clock := func() time.Time { return testNow }
	repos := repomanager.NewMemoryRepositoryManager()
	registry := services.NewConnectionRegistry(repos.Connections(), vault, logging.Nop())
	inventory := services.NewInventoryStore(repos.Vehicles())
	logs := services.NewSyncLogStore(repos.SyncLogs())
	broker := queue.NewBroker(repos.Jobs(), logging.Nop(), queue.WithClock(clock))
	scheduler := services.NewScheduler(inventory, broker, time.UTC, logging.Nop())
	scheduler.SetClock(clock)

	svc := Services{
		Connections: registry,
		Inventory:   inventory,
		Sync:        services.NewSyncEngine(registry, inventory, logs, adapters.NewDefaultRegistry(adapters.FeedOptions{}), logging.Nop()),
		SyncLogs:    logs,
		Scheduler:   scheduler,
		Broker:      broker,
	}

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer("bufnet", logging.Nop(), svc, testSecret)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})

	return &opsFixture{client: opsapi.NewClient(conn), svc: svc}
}

func as(t *testing.T, dealerID string) context.Context {
	t.Helper()
	token, err := auth.GenerateToken(dealerID, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)
}

func TestPing(t *testing.T) {
	f := newOpsFixture(t)

	resp, err := f.client.Ping(context.Background(), &opsapi.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestCreateConnection_RequiresToken(t *testing.T) {
	f := newOpsFixture(t)

	_, err := f.client.CreateConnection(context.Background(), &opsapi.CreateConnectionRequest{ProviderType: models.ProviderMock})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestConnectionLifecycle(t *testing.T) {
	f := newOpsFixture(t)
	ctx := as(t, "dealer-1")

	created, err := f.client.CreateConnection(ctx, &opsapi.CreateConnectionRequest{
		ProviderType: models.ProviderMock,
		Credentials:  map[string]string{"apiKey": "super-secret-key"},
	})
	require.NoError(t, err)
	assert.Equal(t, "dealer-1", created.Connection.DealerID)
	assert.Equal(t, models.SyncStatusPending, created.Connection.LastSyncStatus)

	raw, err := json.Marshal(created)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-key")

	list, err := f.client.ListConnections(ctx, &opsapi.ListConnectionsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Connections, 1)

	other, err := f.client.ListConnections(as(t, "dealer-2"), &opsapi.ListConnectionsRequest{})
	require.NoError(t, err)
	assert.Empty(t, other.Connections)

	id := created.Connection.ID

	var header metadata.MD
	syncCtx := metadata.AppendToOutgoingContext(ctx, common.CorrelationIDHeaderName, "corr-7")
	res, err := f.client.SyncConnection(syncCtx, &opsapi.SyncConnectionRequest{ConnectionID: id}, grpc.Header(&header))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 5, res.VehiclesImported)
	assert.Equal(t, "corr-7", res.CorrelationID)
	assert.Equal(t, []string{"corr-7"}, header.Get(common.CorrelationIDHeaderName))

	logs, err := f.client.ListSyncLogs(ctx, &opsapi.ListSyncLogsRequest{ConnectionID: id})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	assert.Equal(t, models.SyncLogSuccess, logs.Logs[0].Status)
	assert.Equal(t, "corr-7", logs.Logs[0].CorrelationID)

	_, err = f.client.SyncConnection(as(t, "dealer-2"), &opsapi.SyncConnectionRequest{ConnectionID: id})
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = f.client.RevokeConnection(as(t, "dealer-2"), &opsapi.RevokeConnectionRequest{ConnectionID: id})
	assert.Equal(t, codes.NotFound, status.Code(err))

	revoked, err := f.client.RevokeConnection(ctx, &opsapi.RevokeConnectionRequest{ConnectionID: id})
	require.NoError(t, err)
	assert.True(t, revoked.Revoked)

	_, err = f.client.SyncConnection(ctx, &opsapi.SyncConnectionRequest{ConnectionID: id})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func (f *opsFixture) seedVehicle(t *testing.T, dealerID string) string {
	t.Helper()
	v, _, err := f.svc.Inventory.Upsert(context.Background(), &models.Vehicle{DealerID: dealerID, ProviderID: "p-1", Make: "Ford"})
	require.NoError(t, err)
	return v.ID
}

func (f *opsFixture) seedConnection(t *testing.T, dealerID string) string {
	t.Helper()
	info, err := f.svc.Connections.Create(context.Background(), dealerID, models.ProviderMock, models.Credentials{"accessToken": "tok-" + dealerID})
	require.NoError(t, err)
	return info.ID
}

func TestSchedulePost_AndJobStatus(t *testing.T) {
	f := newOpsFixture(t)
	ctx := as(t, "dealer-1")
	vehicleID := f.seedVehicle(t, "dealer-1")
	connID := f.seedConnection(t, "dealer-1")

	now, err := f.client.SchedulePost(ctx, &opsapi.SchedulePostRequest{
		VehicleID:       vehicleID,
		Platform:        models.PlatformFacebook,
		ConnectionID:    connID,
		ImmediatelyPost: true,
	})
	require.NoError(t, err)
	require.Len(t, now.Scheduled, 1)

	st, err := f.client.GetJobStatus(ctx, &opsapi.GetJobStatusRequest{JobID: now.Scheduled[0].JobID})
	require.NoError(t, err)
	assert.Equal(t, models.QueuePosting, st.Queue)
	assert.Equal(t, models.JobWaiting, st.State)
	assert.Equal(t, 0, st.AttemptsMade)

	at := testNow.Add(48 * time.Hour)
	later, err := f.client.SchedulePost(ctx, &opsapi.SchedulePostRequest{
		VehicleID:    vehicleID,
		Platform:     models.PlatformFacebook,
		ConnectionID: connID,
		SpecificTime: &at,
	})
	require.NoError(t, err)
	jobID := later.Scheduled[0].JobID
	assert.True(t, at.Equal(later.Scheduled[0].ScheduledFor))

	listed, err := f.client.ListScheduledPosts(ctx, &opsapi.ListScheduledPostsRequest{})
	require.NoError(t, err)
	require.Len(t, listed.Posts, 1)
	assert.Equal(t, jobID, listed.Posts[0].JobID)

	_, err = f.client.GetJobStatus(as(t, "dealer-2"), &opsapi.GetJobStatusRequest{JobID: jobID})
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = f.client.CancelJob(as(t, "dealer-2"), &opsapi.CancelJobRequest{JobID: jobID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	cancelled, err := f.client.CancelJob(ctx, &opsapi.CancelJobRequest{JobID: jobID})
	require.NoError(t, err)
	assert.True(t, cancelled.Cancelled)

	_, err = f.client.GetJobStatus(ctx, &opsapi.GetJobStatusRequest{JobID: jobID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestSchedulePost_Recurring(t *testing.T) {
	f := newOpsFixture(t)
	ctx := as(t, "dealer-1")
	vehicleID := f.seedVehicle(t, "dealer-1")

	resp, err := f.client.SchedulePost(ctx, &opsapi.SchedulePostRequest{
		VehicleID:    vehicleID,
		Platform:     models.PlatformFacebook,
		ConnectionID: f.seedConnection(t, "dealer-1"),
		EveryNDays:   2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Scheduled, 4)
	assert.Equal(t, time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC), resp.Scheduled[0].ScheduledFor.UTC())
}

func TestSchedulePost_Rejected(t *testing.T) {
	f := newOpsFixture(t)
	vehicleID := f.seedVehicle(t, "dealer-1")
	ownConn := f.seedConnection(t, "dealer-1")

	_, err := f.client.SchedulePost(as(t, "dealer-2"), &opsapi.SchedulePostRequest{VehicleID: vehicleID, Platform: models.PlatformFacebook, ConnectionID: ownConn})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = f.client.SchedulePost(as(t, "dealer-1"), &opsapi.SchedulePostRequest{VehicleID: vehicleID, ConnectionID: ownConn})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.client.SchedulePost(as(t, "dealer-1"), &opsapi.SchedulePostRequest{VehicleID: vehicleID, Platform: models.PlatformFacebook})
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "connection id is required")

	_, err = f.client.GetJobStatus(as(t, "dealer-1"), &opsapi.GetJobStatusRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSchedulePost_ForeignConnection(t *testing.T) {
	f := newOpsFixture(t)
	ctx := as(t, "dealer-1")
	vehicleID := f.seedVehicle(t, "dealer-1")
	foreign := f.seedConnection(t, "dealer-2")

	for _, req := range []*opsapi.SchedulePostRequest{
		{VehicleID: vehicleID, Platform: models.PlatformFacebook, ConnectionID: foreign, ImmediatelyPost: true},
		{VehicleID: vehicleID, Platform: models.PlatformFacebook, ConnectionID: foreign, EveryNDays: 3},
	} {
		_, err := f.client.SchedulePost(ctx, req)
		assert.Equal(t, codes.NotFound, status.Code(err))
	}

	revoked := f.seedConnection(t, "dealer-1")
	_, err := f.svc.Connections.Revoke(context.Background(), revoked)
	require.NoError(t, err)
	_, err = f.client.SchedulePost(ctx, &opsapi.SchedulePostRequest{VehicleID: vehicleID, Platform: models.PlatformFacebook, ConnectionID: revoked})
	assert.Equal(t, codes.NotFound, status.Code(err))

	n, err := f.svc.Broker.Posting().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "nothing was enqueued")
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("get: %w", common.ErrorNotFound), codes.NotFound},
		{fmt.Errorf("%w: missing", common.ErrInvalidInput), codes.InvalidArgument},
		{common.ErrUnsupportedProvider, codes.InvalidArgument},
		{common.ErrUnsupportedPlatform, codes.InvalidArgument},
		{common.ErrAlreadyExists, codes.AlreadyExists},
		{common.ErrInvalidState, codes.FailedPrecondition},
		{common.ErrorUnauthorized, codes.PermissionDenied},
		{fmt.Errorf("open: %w", common.ErrDecryption), codes.Internal},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("dial tcp: password=hunter2"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			st := status.Convert(toStatus(tt.err))
			assert.Equal(t, tt.code, st.Code())
			assert.NotContains(t, st.Message(), "hunter2")
		})
	}

	assert.NoError(t, toStatus(nil))
}
