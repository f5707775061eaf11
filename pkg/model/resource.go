package model

// Resource is a bookable cabin.
type Resource struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Description   string  `json:"description,omitempty" yaml:"description"`
	RatePerMinute float64 `json:"rate_per_minute,omitempty" yaml:"rate_per_minute"`

	AvailabilityEndpoint string `json:"-" yaml:"availability_endpoint"`
	NotificationEndpoint string `json:"-" yaml:"notification_endpoint"`
}
