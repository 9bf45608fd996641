package service

type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
}

// Notifier shows short-lived banners to the operator.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}
