//go:build windows

package platform

func newPlatform(opts Options) Platform {
	return newWindowsPlatform(execRunner{}, opts)
}
