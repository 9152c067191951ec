//go:build darwin

package platform

func newPlatform(opts Options) Platform {
	return newDarwinPlatform(execRunner{}, opts)
}
