package storytools

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fabula/internal/pkg/vision"
)

func TestDescribeImages(t *testing.T) {
	Convey("多张图片按顺序生成多行描述", t, func() {
		annotations := []*vision.Annotation{
			{Labels: []string{"beach", "sunset"}, Objects: []string{"person", "dog"}},
			{Labels: []string{"mountain"}, Objects: []string{"tree"}},
		}

		desc := DescribeImages(annotations)
		lines := strings.Split(desc, "\n")

		So(lines, ShouldHaveLength, 2)
		So(lines[0], ShouldEqual, "Image 1: Labels: beach, sunset. Objects: person, dog.")
		So(lines[1], ShouldEqual, "Image 2: Labels: mountain. Objects: tree.")
	})

	Convey("单张图片生成单行描述", t, func() {
		annotations := []*vision.Annotation{
			{Labels: []string{"city"}, Objects: []string{"car", "building"}},
		}

		desc := DescribeImages(annotations)

		So(desc, ShouldEqual, "Image 1: Labels: city. Objects: car, building.")
		So(strings.Count(desc, "\n"), ShouldEqual, 0)
	})

	Convey("标注为空时仍然生成占位行", t, func() {
		annotations := []*vision.Annotation{
			{Labels: nil, Objects: nil},
		}

		desc := DescribeImages(annotations)

		So(desc, ShouldEqual, "Image 1: Labels: . Objects: .")
	})
}

func TestBuildNarrativePrompt(t *testing.T) {
	Convey("提示词包含语气、视角与精确行数指令", t, func() {
		prompt := BuildNarrativePrompt(PromptParams{
			Tone:        "poetic",
			Perspective: "first",
			LineCount:   5,
			Description: "Image 1: Labels: beach. Objects: dog.",
		})

		So(prompt, ShouldContainSubstring, "**poetic** tone")
		So(prompt, ShouldContainSubstring, "**first** perspective")
		So(prompt, ShouldContainSubstring, "exactly **5 lines**")
		So(prompt, ShouldContainSubstring, "Image 1: Labels: beach. Objects: dog.")
		So(prompt, ShouldContainSubstring, "exactly 5 lines")
		So(prompt, ShouldContainSubstring, "complete sentence")
		So(prompt, ShouldContainSubstring, "cohesive narrative")
	})

	Convey("上下文非空时输出且仅输出一个上下文块", t, func() {
		prompt := BuildNarrativePrompt(PromptParams{
			Tone:        "formal",
			Perspective: "third",
			LineCount:   3,
			Description: "Image 1: Labels: park. Objects: bench.",
			Context:     "  sunset walk  ",
		})

		So(strings.Count(prompt, "Additional context from the author:"), ShouldEqual, 1)
		So(prompt, ShouldContainSubstring, "sunset walk")
		So(prompt, ShouldNotContainSubstring, "  sunset walk  ")
	})

	Convey("上下文为空或全空白时不输出上下文块", t, func() {
		for _, ctx := range []string{"", "   ", "\n\t"} {
			prompt := BuildNarrativePrompt(PromptParams{
				Tone:        "formal",
				Perspective: "third",
				LineCount:   3,
				Description: "Image 1: Labels: park. Objects: bench.",
				Context:     ctx,
			})

			So(prompt, ShouldNotContainSubstring, "Additional context")
		}
	})

	Convey("结构顺序: 指令在前，描述居中，规则在后", t, func() {
		prompt := BuildNarrativePrompt(PromptParams{
			Tone:        "poetic",
			Perspective: "first",
			LineCount:   7,
			Description: "Image 1: Labels: lake. Objects: boat.",
			Context:     "a quiet morning",
		})

		toneIdx := strings.Index(prompt, "**poetic**")
		descIdx := strings.Index(prompt, "Image descriptions:")
		ctxIdx := strings.Index(prompt, "Additional context")
		rulesIdx := strings.Index(prompt, "Rules:")

		So(toneIdx, ShouldBeLessThan, descIdx)
		So(descIdx, ShouldBeLessThan, ctxIdx)
		So(ctxIdx, ShouldBeLessThan, rulesIdx)
	})
}
