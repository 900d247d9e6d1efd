package entity

import "fmt"

// ConfigurationDescriptor identifies one strategy instance. It is copied by
// value and used as a dimension of every balance lookup key.
type ConfigurationDescriptor struct {
	ServiceName             string
	ServiceConfigurationKey string
}

func (d ConfigurationDescriptor) String() string {
	return fmt.Sprintf("%s/%s", d.ServiceName, d.ServiceConfigurationKey)
}
