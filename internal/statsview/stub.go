//go:build !statsview

package statsview

// Launch fails without the statsview build tag.
func Launch(addr string) (link string, err error) {
	err = ErrUnavailable
	return
}
