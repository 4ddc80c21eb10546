package model

// AlertEventType 告警推送消息类型
const AlertEventType = "alert"

// AlertEvent 新告警推送（Redis alerts:feed → websocket）
type AlertEvent struct {
	Type    string            `json:"type"`
	Payload AlertEventPayload `json:"payload"`
}

// AlertEventPayload 已持久化的告警
type AlertEventPayload struct {
	AlertID   string `json:"alert_id"`
	RequestID string `json:"request_id"`
	AnomalyAlert
}
