package api

import "testing"

func TestListRequest_EncodeEmpty(t *testing.T) {
	if got := (ListRequest{}).Encode(); got != "" {
		t.Errorf("empty request encoded as %q, want empty string", got)
	}
}

func TestListRequest_Encode(t *testing.T) {
	cases := []struct {
		name string
		req  ListRequest
		want string
	}{
		{
			name: "pagination only",
			req:  ListRequest{Page: 2, PerPage: 25},
			want: "?page=2&per_page=25",
		},
		{
			name: "sort ascending",
			req:  ListRequest{SortBy: "name"},
			want: "?dir=asc&sort=name",
		},
		{
			name: "sort descending",
			req:  ListRequest{SortBy: "created_at", SortDesc: true},
			want: "?dir=desc&sort=created_at",
		},
		{
			name: "filters sorted by key",
			req:  ListRequest{Filters: map[string]string{"state": "active", "brand": "acme"}},
			want: "?filter%5Bbrand%5D=acme&filter%5Bstate%5D=active",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.req.Encode(); got != tc.want {
				t.Errorf("Encode() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestListRequest_EncodeIsDeterministic(t *testing.T) {
	req := ListRequest{
		Filters: map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"},
		Page:    1,
	}
	first := req.Encode()
	for i := 0; i < 20; i++ {
		if got := req.Encode(); got != first {
			t.Fatalf("encoding varied between calls: %q vs %q", first, got)
		}
	}
}
