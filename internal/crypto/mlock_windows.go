//go:build windows

package crypto

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// region returns the address and size of data for the Virtual* calls.
func region(data []byte) (addr, size uintptr) {
	return uintptr(unsafe.Pointer(unsafe.SliceData(data))), uintptr(len(data))
}

// mlock keeps data in the process working set with VirtualLock.
func mlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return windows.VirtualLock(region(data)) == nil
}

func munlock(data []byte) {
	if len(data) > 0 {
		_ = windows.VirtualUnlock(region(data))
	}
}
