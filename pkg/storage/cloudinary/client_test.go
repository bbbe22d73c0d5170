package cloudinary

import "testing"

func TestUploadParams(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		base       string
		hint       string
		wantFolder string
	}{
		{name: "base and hint", base: "festival", hint: "2024/video", wantFolder: "festival/2024/video"},
		{name: "hint trimmed", base: "festival", hint: " /2024/partners/ ", wantFolder: "festival/2024/partners"},
		{name: "empty hint keeps base", base: "festival", hint: "", wantFolder: "festival"},
		{name: "empty base keeps hint", base: "", hint: "2024/photos", wantFolder: "2024/photos"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params := uploadParams(tc.base, tc.hint)
			if params.Folder != tc.wantFolder {
				t.Fatalf("unexpected folder %q, want %q", params.Folder, tc.wantFolder)
			}
			if params.ResourceType != "auto" {
				t.Fatalf("unexpected resource type %q, want auto", params.ResourceType)
			}
		})
	}
}
