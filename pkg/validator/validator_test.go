package validator

import "testing"

type sample struct {
	UserID  string `validate:"required,notblank"`
	Summary string `validate:"required,notblank"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{name: "valid", in: sample{UserID: "u1", Summary: "Patient reported a headache."}},
		{name: "missing user", in: sample{Summary: "x"}, wantErr: true},
		{name: "missing summary", in: sample{UserID: "u1"}, wantErr: true},
		{name: "blank summary", in: sample{UserID: "u1", Summary: "   "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
