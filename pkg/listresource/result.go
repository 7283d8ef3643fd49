package listresource

// Result is what every mutation returns. OK=false with a Message is an
// expected rejection (validation, status "no", transport failure); Err is
// set only when the failure came from the transport or the client itself.
// Create is the one exception: OK with Err means the record was stored but
// the pid in the response could not be decoded.
type Result[D any] struct {
	OK      bool
	Message string
	Data    D
	Err     error
}

func ok[D any](msg string, data D) Result[D] {
	return Result[D]{OK: true, Message: msg, Data: data}
}

func rejected[D any](msg string) Result[D] {
	return Result[D]{Message: msg}
}

func failed[D any](msg string, err error) Result[D] {
	return Result[D]{Message: msg, Err: err}
}

// None is the data of mutations that return nothing.
type None struct{}
