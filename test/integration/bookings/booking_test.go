package integrationtests

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"cabins/pkg/client"
	apperrors "cabins/pkg/errors"
	"cabins/pkg/model"
	"cabins/test/integration/testutil"

	"github.com/google/uuid"
)

const cabinID = "lying-1"

var date = testutil.FutureDate(30)

func setup(t *testing.T) *testutil.TestEnv {
	t.Helper()
	env := testutil.NewTestEnv(t)

	mongo := testutil.NewMongoHelper(t, env.MongoURI, env.DatabaseName)
	mongo.ClearBookings(t, date)
	t.Cleanup(func() {
		mongo.ClearBookings(t, date)
		mongo.Close(t)
	})
	return env
}

func assertStatus(t *testing.T, resp *client.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, want, resp.ToString())
	}
}

func assertErrorCode(t *testing.T, resp *client.Response, want string) {
	t.Helper()
	if got := client.GetErrorMessage(resp); got == "" {
		t.Fatalf("expected error body, got %s", resp.ToString())
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := resp.DecodeJSON(&body); err != nil || body.Code != want {
		t.Fatalf("code = %q, want %q (%s)", body.Code, want, resp.ToString())
	}
}

func slotAvailable(t *testing.T, c *client.BookingClient, cabin, clock string) bool {
	t.Helper()
	resp, err := c.Availability(context.Background(), cabin, date)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	slots, err := c.DecodeSlots(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range slots {
		if s.Time == clock {
			return s.Available
		}
	}
	t.Fatalf("slot %s not offered", clock)
	return false
}

func TestBookingLifecycle(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	alice := env.ClientFor(t, "it-alice-"+uuid.NewString()[:8])

	if !slotAvailable(t, alice, cabinID, "10:15") {
		t.Fatal("slot should start free")
	}

	resp, err := alice.Create(ctx, model.BookingRequest{CabinID: cabinID, Date: date, Time: "10:15"})
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, resp, http.StatusCreated)
	booking, err := alice.DecodeBooking(resp)
	if err != nil {
		t.Fatal(err)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("status = %s", booking.Status)
	}

	if slotAvailable(t, alice, cabinID, "10:15") {
		t.Error("booked slot still reported available")
	}
	if !slotAvailable(t, alice, "lying-2", "10:15") {
		t.Error("other cabin blocked")
	}

	resp, err = alice.ListMine(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mine, err := alice.DecodeBookings(resp)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != booking.ID {
		t.Errorf("mine = %+v", mine)
	}

	resp, err = alice.Cancel(ctx, booking.ID)
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, resp, http.StatusNoContent)

	if !slotAvailable(t, alice, cabinID, "10:15") {
		t.Error("cancelled slot not released")
	}
}

func TestDoubleBookingIsRejected(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	req := model.BookingRequest{CabinID: cabinID, Date: date, Time: "11:00"}

	resp, err := env.ClientFor(t, "it-first").Create(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, resp, http.StatusCreated)

	resp, err = env.ClientFor(t, "it-second").Create(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, resp, http.StatusConflict)
	assertErrorCode(t, resp, apperrors.CodeSlotUnavailable)
}

func TestConcurrentBookingExactlyOneWins(t *testing.T) {
	env := setup(t)
	req := model.BookingRequest{CabinID: cabinID, Date: date, Time: "12:30"}

	const writers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < writers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := env.ClientFor(t, fmt.Sprintf("it-racer-%d", i))
			resp, err := c.Create(context.Background(), req)
			if err != nil {
				t.Errorf("writer %d: %v", i, err)
				return
			}
			switch resp.StatusCode {
			case http.StatusCreated:
				mu.Lock()
				created++
				mu.Unlock()
			case http.StatusConflict:
			default:
				t.Errorf("writer %d: unexpected %s", i, resp.ToString())
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("created = %d, want exactly 1", created)
	}
}

func TestRejections(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	user := env.ClientFor(t, "it-rejections")

	tests := []struct {
		name   string
		c      *client.BookingClient
		req    model.BookingRequest
		status int
		code   string
	}{
		{name: "anonymous", c: env.Anonymous(), req: model.BookingRequest{CabinID: cabinID, Date: date, Time: "09:00"}, status: http.StatusUnauthorized, code: apperrors.CodeUnauthenticated},
		{name: "unknown cabin", c: user, req: model.BookingRequest{CabinID: "sauna-1", Date: date, Time: "09:00"}, status: http.StatusNotFound, code: apperrors.CodeUnknownResource},
		{name: "missing time", c: user, req: model.BookingRequest{CabinID: cabinID, Date: date}, status: http.StatusUnprocessableEntity, code: apperrors.CodeIncompleteSelection},
		{name: "before opening", c: user, req: model.BookingRequest{CabinID: cabinID, Date: date, Time: "07:00"}, status: http.StatusConflict, code: apperrors.CodeSlotUnavailable},
		{name: "past date", c: user, req: model.BookingRequest{CabinID: cabinID, Date: "2000-01-01", Time: "10:00"}, status: http.StatusConflict, code: apperrors.CodeSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.c.Create(ctx, tt.req)
			if err != nil {
				t.Fatal(err)
			}
			assertStatus(t, resp, tt.status)
			assertErrorCode(t, resp, tt.code)
		})
	}
}

func TestCancelErrors(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	owner := env.ClientFor(t, "it-owner")

	resp, err := owner.Create(ctx, model.BookingRequest{CabinID: "standing-1", Date: date, Time: "15:00"})
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, resp, http.StatusCreated)
	booking, _ := owner.DecodeBooking(resp)

	resp, err = env.ClientFor(t, "it-intruder").Cancel(ctx, booking.ID)
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, resp, http.StatusForbidden)

	resp, err = owner.Cancel(ctx, "507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, resp, http.StatusNotFound)

	for i := 0; i < 2; i++ {
		resp, err = owner.Cancel(ctx, booking.ID)
		if err != nil {
			t.Fatal(err)
		}
		assertStatus(t, resp, http.StatusNoContent)
	}
}

func TestIdempotentCreate(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	c := env.ClientFor(t, "it-idempotent")
	req := model.BookingRequest{CabinID: "lying-2", Date: date, Time: "16:45"}
	key := uuid.NewString()

	first, err := c.CreateWithKey(ctx, req, key)
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, first, http.StatusCreated)

	second, err := c.CreateWithKey(ctx, req, key)
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, second, http.StatusCreated)

	a, _ := c.DecodeBooking(first)
	b, _ := c.DecodeBooking(second)
	if a.ID != b.ID {
		t.Errorf("replay created a second booking: %s vs %s", a.ID, b.ID)
	}
}

func TestMalformedBody(t *testing.T) {
	env := setup(t)
	resp, err := env.ClientFor(t, "it-malformed").CreateRaw(context.Background(), []byte(`{"cabin_id":`))
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, resp, http.StatusBadRequest)
}
