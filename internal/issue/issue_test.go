// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(ConfigLoadFailedId) {
		t.Fatalf("len(Values()) = %d, want %d", len(values), ConfigLoadFailedId)
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no content", v.Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if Get(DescriptionNotFoundId) == nil {
		t.Error("Get(DescriptionNotFoundId) = nil")
	}
	if Get(Id(999)) != nil {
		t.Error("Get(999) should be nil")
	}
}

func TestIssue_RenderAll(t *testing.T) {
	t.Parallel()

	for _, i := range Values() {
		out, err := i.Render("notty")
		if err != nil {
			t.Errorf("Render(%d) unexpected error: %v", i.Id(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("Render(%d) returned empty output", i.Id())
		}
	}
}

func TestIssue_RenderWithLinks(t *testing.T) {
	t.Parallel()

	i := &Issue{id: 100, mdMsg: "# Title", docLinks: []HttpLink{"https://example.com/docs"}}
	out, err := i.Render("notty")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !strings.Contains(out, "See also") || !strings.Contains(out, "example.com/docs") {
		t.Errorf("Render() = %q, want links section", out)
	}

	links := i.DocLinks()
	links[0] = "changed"
	if i.DocLinks()[0] == "changed" {
		t.Error("DocLinks() returned internal slice")
	}
}
