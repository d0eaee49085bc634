//go:build js && wasm

// Command wasm exposes compressImage(bytes, quality, format) to a JavaScript
// host. Build with: GOOS=js GOARCH=wasm go build -o imgcompress.wasm ./wasm
package main

import (
	"os"
	"syscall/js"

	"github.com/AnyUserName/imgcompress/internal/compress"
	"github.com/AnyUserName/imgcompress/internal/diag"
)

func main() {
	diag.Install(os.Stderr)

	js.Global().Set("compressImage", js.FuncOf(compressImage))
	select {}
}

// compressImage(data: Uint8Array, quality: number, format: string) -> Uint8Array.
// Failures come back as a JS Error carrying the compress error text.
func compressImage(_ js.Value, args []js.Value) any {
	defer diag.Capture()

	if len(args) < 3 {
		return jsError("compressImage(data, quality, format) takes 3 arguments")
	}

	if !args[0].InstanceOf(js.Global().Get("Uint8Array")) {
		return jsError("compressImage: data must be a Uint8Array")
	}
	if args[1].Type() != js.TypeNumber {
		return jsError("compressImage: quality must be a number")
	}
	if args[2].Type() != js.TypeString {
		return jsError("compressImage: format must be a string")
	}

	data := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(data, args[0])

	out, err := compress.CompressImage(data, uint8(args[1].Int()), args[2].String())
	if err != nil {
		return jsError(err.Error())
	}

	arr := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(arr, out)
	return arr
}

func jsError(msg string) js.Value {
	return js.Global().Get("Error").New(msg)
}
