package imgix

import (
	"testing"
)

func TestSign(t *testing.T) {
	var tests = []struct {
		path      string
		query     string
		signature string
	}{
		{"image.jpg", "w=100", "15f6c4f3fe810f2dea4047b81fbfa516"},
		{"image.jpg", "", "86f7279a6d6614a0af580fa84fbed137"},
		{"users/1.png", "fit=crop&h=300&w=400", "aa003ea81e24b524785022d30ed58b68"},
		{"my%20image.jpg", "txt=a%26b&w=100", "69fe952ce899411c0e6709ee56ba5d5c"},
	}

	for _, test := range tests {
		if got := Sign("FOO123bar", test.path, test.query); got != test.signature {
			t.Errorf("Sign(%#v, %#v) got %v want %v", test.path, test.query, got, test.signature)
		}
	}
}
