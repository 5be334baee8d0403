package pipeline

import (
	"reflect"
	"testing"
)

func TestDedupeBy(t *testing.T) {
	t.Run("keeps first occurrence in order", func(t *testing.T) {
		got := DedupeBy([]string{"b", "a", "b", "c", "a"}, func(s string) string { return s })
		want := []string{"b", "a", "c"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("DedupeBy = %v, want %v", got, want)
		}
	})

	t.Run("dedupes by derived key", func(t *testing.T) {
		type row struct {
			email string
			n     int
		}
		got := DedupeBy([]row{{"a@x.com", 1}, {"a@x.com", 2}, {"b@x.com", 3}},
			func(r row) string { return r.email })
		want := []row{{"a@x.com", 1}, {"b@x.com", 3}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("DedupeBy = %v, want %v", got, want)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := DedupeBy(nil, func(s string) string { return s })
		if len(got) != 0 {
			t.Errorf("DedupeBy(nil) = %v, want empty", got)
		}
	})
}
