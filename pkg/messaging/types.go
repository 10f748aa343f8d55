// Package messaging publishes and consumes catalog change notifications over
// RabbitMQ topic exchanges.
package messaging

type ChangeTopic string

const (
	CatalogChanged ChangeTopic = "catalog_changed"
)

type CatalogChange struct {
	Category string `json:"category"`
}
