package ipmi

// fakeInterface answers requests with a handler and records every call.
type fakeInterface struct {
	handler func(Target, Request) (Response, error)

	requests     []Request
	targets      []Target
	establishErr error
	closeErr     error

	establishCalls int
	closeCalls     int
	closed         bool
}

func (f *fakeInterface) Name() string { return "fake" }

func (f *fakeInterface) SendMessage(target Target, req Request) (Response, error) {
	f.requests = append(f.requests, req)
	f.targets = append(f.targets, target)
	if f.handler == nil {
		return Response{}, nil
	}
	return f.handler(target, req)
}

func (f *fakeInterface) EstablishSession(*Session) error {
	f.establishCalls++
	return f.establishErr
}

func (f *fakeInterface) CloseSession(*Session) error {
	f.closeCalls++
	return f.closeErr
}

func (f *fakeInterface) Close() error {
	f.closed = true
	return nil
}
