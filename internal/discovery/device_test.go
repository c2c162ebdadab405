package discovery

import "testing"

func TestDevice_String(t *testing.T) {
	tests := []struct {
		name   string
		device *Device
		want   string
	}{
		{
			name: "with MAC",
			device: &Device{
				Instance: "a0:b1:c2:d3:e4:f5@fe80::1",
				MAC:      "a0:b1:c2:d3:e4:f5",
				Hostname: "Sams-iPhone.local.",
				IP:       "192.168.1.20",
				Port:     32498,
			},
			want: "Sams-iPhone.local. [a0:b1:c2:d3:e4:f5] at 192.168.1.20:32498",
		},
		{
			name: "no hostname",
			device: &Device{
				Instance: "Living Room",
				IP:       "fe80::1",
				Port:     32498,
			},
			want: "Living Room at [fe80::1]:32498",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

