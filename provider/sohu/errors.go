package sohu

import "fmt"

func errNoMatch(what string) error {
	return fmt.Errorf("no %s in page", what)
}

func errQuoted(msg, value string) error {
	return fmt.Errorf("%s %q", msg, value)
}

func errStatus(status int) error {
	return fmt.Errorf("unexpected status %d", status)
}
