package service

import (
	"errors"
	"fmt"
)

// ErrorKind - стабильный тег вида ошибки. HTTP слой отображает тег в статус,
// не разбирая текст сообщения.
type ErrorKind string

const (
	KindTerminalUnavailable  ErrorKind = "terminal_unavailable"  // терминал недоступен / не инициализирован
	KindAuthenticationFailed ErrorKind = "authentication_failed" // логин отклонён / нет сессии
	KindSymbolNotFound       ErrorKind = "symbol_not_found"      // инструмент не существует
	KindSymbolUnavailable    ErrorKind = "symbol_unavailable"    // инструмент нельзя включить в Market Watch
	KindPriceUnavailable     ErrorKind = "price_unavailable"     // нет живой котировки
	KindPositionNotFound     ErrorKind = "position_not_found"    // тикет без открытой позиции
	KindOrderRejected        ErrorKind = "order_rejected"        // терминал вернул retcode != done
	KindValidation           ErrorKind = "validation_error"      // отсутствует/некорректно обязательное поле
)

// Error - структурированная ошибка операции шлюза.
//
// Политика распространения: любая ошибка гасится на границе операции и
// превращается в Error с тегом. Ничего не повторяется автоматически -
// решение о пересдаче принимает вызывающая сторона.
type Error struct {
	Kind    ErrorKind
	Message string
	Retcode int // код терминала, только для KindOrderRejected
}

func (e *Error) Error() string {
	if e.Retcode != 0 {
		return fmt.Sprintf("%s: %s (retcode %d)", e.Kind, e.Message, e.Retcode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf создаёт Error с форматированным сообщением
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Rejected создаёт ошибку отклонённого торгового запроса,
// сохраняя retcode и человекочитаемый комментарий терминала.
func Rejected(retcode int, comment string) *Error {
	return &Error{Kind: KindOrderRejected, Message: comment, Retcode: retcode}
}

// KindOf извлекает тег ошибки. Для нетегированных ошибок возвращает
// KindTerminalUnavailable - за границу операции такие выходить не должны.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTerminalUnavailable
}

// terminalErr оборачивает ошибку транспорта/фасада терминала.
// Проверка доступности выполняется один раз на границе вызова,
// без пер-полевых проверок.
func terminalErr(op string, err error) *Error {
	TerminalCallErrors.WithLabelValues(op).Inc()
	return Errorf(KindTerminalUnavailable, "terminal %s failed: %v", op, err)
}
