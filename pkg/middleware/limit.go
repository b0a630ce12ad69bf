package middleware

import "net/http"

// MaxBytes returns middleware capping request bodies at n bytes. Reads past
// the limit fail with *http.MaxBytesError. A non-positive n disables the cap.
func MaxBytes(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.MaxBytesHandler(next, n)
	}
}
