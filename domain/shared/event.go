package shared

// DomainEvent 领域事件
// 事件以聚合 ID 作为消息键，保证同一聚合的事件有序
type DomainEvent interface {
	EventName() string
	GetAggregateID() string
}
