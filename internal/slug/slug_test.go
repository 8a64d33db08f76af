package slug

import "testing"

// TestGenerate exercises the slug generator across typical article
// titles, punctuation, whitespace, and boundary inputs.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Typical article titles ---
		{
			name:  "simple two words",
			input: "Anvil Care",
			want:  "anvil-care",
		},
		{
			name:  "title with year",
			input: "Quench Oils Compared 2026",
			want:  "quench-oils-compared-2026",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},
		{
			name:  "single mixed-case word",
			input: "Bladesmithing",
			want:  "bladesmithing",
		},
		{
			name:  "long editorial title",
			input: "What We Learned Restoring a Century Old Post Vise",
			want:  "what-we-learned-restoring-a-century-old-post-vise",
		},

		// --- Punctuation ---
		{
			name:  "commas apostrophes question mark",
			input: "Mild Steel, Wrought Iron! What's the Difference?",
			want:  "mild-steel-wrought-iron-whats-the-difference",
		},
		{
			name:  "ampersand and at sign",
			input: "Hammer & Tongs @ the Open Forge",
			want:  "hammer-tongs-the-open-forge",
		},
		{
			name:  "parentheses and brackets",
			input: "Flux (Borax) [Revisited]",
			want:  "flux-borax-revisited",
		},
		{
			name:  "slashes and pipes",
			input: "Coal/Propane | Which Forge Fuel",
			want:  "coalpropane-which-forge-fuel",
		},
		{
			name:  "hash and dollar",
			input: "Reader Question #7 on a $40 Anvil",
			want:  "reader-question-7-on-a-40-anvil",
		},
		{
			name:  "colon separated title",
			input: "Damascus Steel: A Primer",
			want:  "damascus-steel-a-primer",
		},
		{
			name:  "only special characters",
			input: "!@#$%^&*()",
			want:  "",
		},

		// --- Whitespace ---
		{
			name:  "leading and trailing spaces",
			input: "  forge welding basics  ",
			want:  "forge-welding-basics",
		},
		{
			name:  "multiple consecutive spaces collapsed",
			input: "forge    welding",
			want:  "forge-welding",
		},
		{
			name:  "tabs preserved as whitespace",
			input: "forge\twelding",
			want:  "forge\twelding",
		},
		{
			name:  "newlines preserved as whitespace",
			input: "forge\nwelding",
			want:  "forge\nwelding",
		},

		// --- Hyphens ---
		{
			name:  "existing hyphen preserved",
			input: "hand-forged hooks",
			want:  "hand-forged-hooks",
		},
		{
			name:  "runs of hyphens collapsed",
			input: "scroll---work",
			want:  "scroll-work",
		},
		{
			name:  "leading and trailing hyphens trimmed",
			input: "--tool steel--",
			want:  "tool-steel",
		},
		{
			name:  "hyphens and spaces mixed",
			input: "  --heat -- treat--  ",
			want:  "heat-treat",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only spaces",
			input: "     ",
			want:  "",
		},
		{
			name:  "only hyphens",
			input: "-----",
			want:  "",
		},
		{
			name:  "single character",
			input: "A",
			want:  "a",
		},
		{
			name:  "single hyphen",
			input: "-",
			want:  "",
		},

		// --- Numbers ---
		{
			name:  "steel grade",
			input: "Working with 1084",
			want:  "working-with-1084",
		},
		{
			name:  "temperature with degree stripped",
			input: "Tempering at 400F",
			want:  "tempering-at-400f",
		},
		{
			name:  "date-like string",
			input: "2026-08-29",
			want:  "2026-08-29",
		},
		{
			name:  "decimal point dropped",
			input: "O1 vs W2 at 1.2 Percent Carbon",
			want:  "o1-vs-w2-at-12-percent-carbon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	slugs := []string{
		"anvil-care",
		"quench-oils-compared-2026",
		"a",
		"1084",
	}

	for _, s := range slugs {
		t.Run(s, func(t *testing.T) {
			got := Generate(s)
			if got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result %q", s, got, s)
			}
		})
	}
}

// TestGenerate_ConsistentCase verifies that slugs are always lowercase
// regardless of input casing.
func TestGenerate_ConsistentCase(t *testing.T) {
	inputs := []string{
		"ANVIL CARE",
		"Anvil Care",
		"aNvIl CaRe",
		"anvil care",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got := Generate(input)
			if got != "anvil-care" {
				t.Errorf("Generate(%q) = %q, want %q", input, got, "anvil-care")
			}
		})
	}
}
