//go:build !race

package login

func passwordHashCost() int {
	return 14
}
