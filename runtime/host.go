package runtime

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/hotreload/abi"
)

// instantiateHost registers the engine namespace that game modules import.
func (r *Runtime) instantiateHost(ctx context.Context) (api.Module, error) {
	return r.runtime.NewHostModuleBuilder(abi.HostModule).
		NewFunctionBuilder().
		WithFunc(r.write).
		WithParameterNames("ptr", "len").
		Export(abi.HostWrite).
		Instantiate(ctx)
}

// write copies len bytes at ptr from the calling module's memory to the
// screen. Out-of-range reads trap the guest.
func (r *Runtime) write(_ context.Context, m api.Module, ptr, n uint32) {
	buf, ok := m.Memory().Read(ptr, n)
	if !ok {
		panic(errOutOfRange{ptr: ptr, n: n, size: m.Memory().Size()})
	}
	if _, err := r.screen.Write(buf); err != nil {
		r.logger.Warn("screen write failed", zap.String("module", m.Name()), zap.Error(err))
	}
}

type errOutOfRange struct {
	ptr, n, size uint32
}

func (e errOutOfRange) Error() string {
	return fmt.Sprintf("write out of memory range: ptr=%d len=%d size=%d", e.ptr, e.n, e.size)
}
