package instance

import (
	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/errors"
)

// queryAll runs the driver's two-call enumeration idiom: a count call
// with a nil buffer, then a data call with a buffer of exactly that
// count. Record shape and the driver function are the only parameters;
// init, when non-nil, seeds each record before the data call (device
// groups require their structure tag set).
//
// The count may legitimately change between the two calls. A shrink is
// handled by truncating to the data call's fill count, so no
// uninitialized trailing records escape. An explicit incomplete status
// on the data call retries the whole sequence once; a second incomplete
// surfaces as a driver_status error rather than partial data.
func queryAll[T any](proc string, init func(*T), query func(count *uint32, data *T) vk.Result) ([]T, error) {
	const attempts = 2

	for attempt := 0; attempt < attempts; attempt++ {
		var n uint32
		if r := query(&n, nil); r.IsError() {
			return nil, errors.DriverStatus(errors.PhaseEnumerate, proc, int32(r))
		}
		if n == 0 {
			return nil, nil
		}

		buf := make([]T, n)
		if init != nil {
			for idx := range buf {
				init(&buf[idx])
			}
		}

		m := n
		r := query(&m, &buf[0])
		if r == vk.Incomplete {
			continue
		}
		if r.IsError() {
			return nil, errors.DriverStatus(errors.PhaseEnumerate, proc, int32(r))
		}
		return buf[:m], nil
	}

	return nil, errors.New(errors.PhaseEnumerate, errors.KindDriverStatus).
		Proc(proc).
		Status(int32(vk.Incomplete)).
		Detail("buffer reported incomplete after retry").
		Build()
}
