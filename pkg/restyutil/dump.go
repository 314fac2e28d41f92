package restyutil

import (
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// DumpResponses writes every response the client receives (with the request
// that caused it) to `output`, ids are sequential starting at 1.
func DumpResponses(client *resty.Client, output Output) {
	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(atomic.AddUint64(&counter, 1), 10)
		output.Write(id+".txt", formatHttpMessage(res))
		return nil
	})
}
