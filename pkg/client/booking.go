package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"cabins/pkg/model"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// BookingClient talks to the bookings API on behalf of a single identity.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingClient) HTTP() *HttpClient {
	return c.httpClient
}

// AsUser sets the header identity used when no bearer token is configured.
func (c *BookingClient) AsUser(userID, email string) *BookingClient {
	c.httpClient.Headers[HeaderUserID] = userID
	c.httpClient.Headers[HeaderUserEmail] = email
	return c
}

func (c *BookingClient) WithBearer(token string) *BookingClient {
	c.httpClient.Headers["Authorization"] = "Bearer " + token
	return c
}

func (c *BookingClient) ListCabins(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/cabins")
}

func (c *BookingClient) Availability(ctx context.Context, cabinID, date string) (*Response, error) {
	q := url.Values{}
	q.Set("date", date)
	path := "/api/v1/cabins/" + url.PathEscape(cabinID) + "/availability?" + q.Encode()
	return c.httpClient.GET(ctx, path)
}

func (c *BookingClient) Create(ctx context.Context, req model.BookingRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings", req)
}

func (c *BookingClient) CreateWithKey(ctx context.Context, req model.BookingRequest, idempotencyKey string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/bookings", req, map[string]string{
		"Idempotency-Key": idempotencyKey,
	})
}

func (c *BookingClient) CreateRaw(ctx context.Context, rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(ctx, "/api/v1/bookings", rawBody, nil)
}

func (c *BookingClient) ListMine(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/bookings/mine")
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id) + "/cancel"
	return c.httpClient.POST(ctx, path, nil)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}

	return &booking, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking list wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var bookings []*model.Booking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, fmt.Errorf("could not decode booking list:\n%+v\n%s", resp.ToString(), err)
	}

	return bookings, nil
}

func (c *BookingClient) DecodeSlots(resp *Response) ([]model.TimeSlot, error) {
	var wrapper struct {
		Data struct {
			Slots []model.TimeSlot `json:"slots"`
		} `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability:\n%+v\n%s", resp.ToString(), err)
	}
	return wrapper.Data.Slots, nil
}
