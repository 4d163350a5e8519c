// Package prime holds a trial-division primality check.
package prime

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}
	for i := 2; i <= n/i; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}
