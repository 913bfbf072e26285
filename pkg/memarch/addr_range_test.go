// Copyright 2026 The gokern Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memarch

import "testing"

func TestAddrRangeFromSize(t *testing.T) {
	ar, ok := AddrRangeFromSize(0x1000, 0x2000)
	if !ok || ar != (AddrRange{0x1000, 0x3000}) {
		t.Errorf("AddrRangeFromSize: got (%v, %t), wanted ([0x1000, 0x3000), true)", ar, ok)
	}
	if _, ok := AddrRangeFromSize(^Addr(0)-1, 4); ok {
		t.Errorf("AddrRangeFromSize: got ok=true on wraparound, wanted false")
	}
}

func TestAddrRangePredicates(t *testing.T) {
	r := AddrRange{0x1000, 0x3000}
	if !r.WellFormed() || r.Length() != 0x2000 {
		t.Errorf("range %v: got (WellFormed=%t, Length=%#x), wanted (true, 0x2000)", r, r.WellFormed(), r.Length())
	}
	if !r.Contains(0x1000) || r.Contains(0x3000) {
		t.Errorf("Contains: got (%t, %t) for start/end, wanted (true, false)", r.Contains(0x1000), r.Contains(0x3000))
	}
	if !r.Overlaps(AddrRange{0x2fff, 0x4000}) || r.Overlaps(AddrRange{0x3000, 0x4000}) {
		t.Errorf("Overlaps: adjacent ranges must not overlap")
	}
	if !r.IsSupersetOf(AddrRange{0x1800, 0x2000}) || r.IsSupersetOf(AddrRange{0x800, 0x2000}) {
		t.Errorf("IsSupersetOf: got (%t, %t), wanted (true, false)",
			r.IsSupersetOf(AddrRange{0x1800, 0x2000}), r.IsSupersetOf(AddrRange{0x800, 0x2000}))
	}
}

func TestAddrRangeIntersect(t *testing.T) {
	r := AddrRange{0x1000, 0x3000}
	for _, test := range []struct {
		r2   AddrRange
		want AddrRange
	}{
		{r2: AddrRange{0x0, 0x2000}, want: AddrRange{0x1000, 0x2000}},
		{r2: AddrRange{0x2000, 0x4000}, want: AddrRange{0x2000, 0x3000}},
		{r2: AddrRange{0x4000, 0x5000}, want: AddrRange{0x4000, 0x4000}},
	} {
		if got := r.Intersect(test.r2); got != test.want || got.Length() != test.want.Length() {
			t.Errorf("%v.Intersect(%v): got %v, wanted %v", r, test.r2, got, test.want)
		}
	}
}
