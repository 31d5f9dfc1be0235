package modem

import (
	"context"
	"reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockTransport is a gomock-style mock of Transport, hand-written in the
// conventional mockgen shape (an embedded *gomock.Controller, a recorder,
// and one EXPECT()-returning method per interface method) since mockgen
// itself is not run as part of the build.
type MockTransport struct {
	ctrl     *gomock.Controller
	recorder *MockTransportMockRecorder
}

type MockTransportMockRecorder struct {
	mock *MockTransport
}

func NewMockTransport(ctrl *gomock.Controller) *MockTransport {
	m := &MockTransport{ctrl: ctrl}
	m.recorder = &MockTransportMockRecorder{m}
	return m
}

func (m *MockTransport) EXPECT() *MockTransportMockRecorder {
	return m.recorder
}

func (m *MockTransport) Read(p []byte) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Read", p)
	n, _ := ret[0].(int)
	err, _ := ret[1].(error)
	return n, err
}

func (mr *MockTransportMockRecorder) Read(p any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockTransport)(nil).Read), p)
}

func (m *MockTransport) Write(p []byte) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Write", p)
	n, _ := ret[0].(int)
	err, _ := ret[1].(error)
	return n, err
}

func (mr *MockTransportMockRecorder) Write(p any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Write", reflect.TypeOf((*MockTransport)(nil).Write), p)
}

func (m *MockTransport) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	err, _ := ret[0].(error)
	return err
}

func (mr *MockTransportMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockTransport)(nil).Close))
}

// MockDialer is a hand-written mockgen-style mock of Dialer.
type MockDialer struct {
	ctrl     *gomock.Controller
	recorder *MockDialerMockRecorder
}

type MockDialerMockRecorder struct {
	mock *MockDialer
}

func NewMockDialer(ctrl *gomock.Controller) *MockDialer {
	m := &MockDialer{ctrl: ctrl}
	m.recorder = &MockDialerMockRecorder{m}
	return m
}

func (m *MockDialer) EXPECT() *MockDialerMockRecorder {
	return m.recorder
}

func (m *MockDialer) Dial(ctx context.Context) (Transport, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Dial", ctx)
	t, _ := ret[0].(Transport)
	err, _ := ret[1].(error)
	return t, err
}

func (mr *MockDialerMockRecorder) Dial(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Dial", reflect.TypeOf((*MockDialer)(nil).Dial), ctx)
}

var (
	_ Transport = (*MockTransport)(nil)
	_ Dialer    = (*MockDialer)(nil)
)
