package config

import "fmt"

func errorf(typeMethod, format string, a ...interface{}) error {
	return fmt.Errorf("codecarve/internal/config."+typeMethod+": "+format, a...)
}
