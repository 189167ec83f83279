// Package storyboard is the client for the storyboards resource: the scene
// list of a story and its per-scene script, prompts, concept image and
// generated video.
package storyboard

import (
	"context"
	"net/http"
	"strconv"

	"github.com/MrEthical07/goStudio/internal/api"
	"github.com/MrEthical07/goStudio/result"
)

// Storyboard is one scene of a story.
type Storyboard struct {
	ID               int64  `json:"id,omitempty"`
	StoryID          int64  `json:"storyId"`
	Scene            int    `json:"scene"`
	Script           string `json:"script,omitempty"`
	ImagePrompt      string `json:"imagePrompt,omitempty"`
	VideoPrompt      string `json:"videoPrompt,omitempty"`
	ConceptImage     string `json:"conceptImage,omitempty"`
	GeneratedVideo   string `json:"generatedVideo,omitempty"`
	VideoGeneratedAt string `json:"videoGeneratedAt,omitempty"`
	VideoStatus      string `json:"videoStatus,omitempty"`
	AudioVideo       string `json:"audioVideo,omitempty"`
	AudioGeneratedAt string `json:"audioGeneratedAt,omitempty"`
	AudioStatus      string `json:"audioStatus,omitempty"`
	UserID           int64  `json:"userId,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

// Messages are the display messages used on failure.
type Messages struct {
	FetchFailed         string
	GenerateFailed      string
	CreateFailed        string
	UpdateFailed        string
	DeleteFailed        string
	Deleted             string
	ScriptFailed        string
	ImagePromptFailed   string
	VideoPromptFailed   string
	ConceptImageFailed  string
	RegenerateFailed    string
	AIPromptsFailed     string
	GenerateImageFailed string
	ExistsFailed        string
	ReorderFailed       string
	VideoInfoFailed     string
}

// DefaultMessages returns the application's localized messages.
func DefaultMessages() Messages {
	return Messages{
		FetchFailed:         "获取分镜头脚本失败",
		GenerateFailed:      "生成分镜头脚本失败",
		CreateFailed:        "创建分镜头脚本失败",
		UpdateFailed:        "更新分镜头脚本失败",
		DeleteFailed:        "删除分镜头脚本失败",
		Deleted:             "分镜头脚本删除成功",
		ScriptFailed:        "更新分镜头脚本失败",
		ImagePromptFailed:   "更新图像提示词失败",
		VideoPromptFailed:   "更新视频提示词失败",
		ConceptImageFailed:  "更新概念图失败",
		RegenerateFailed:    "重新生成提示词失败",
		AIPromptsFailed:     "生成AI提示词失败",
		GenerateImageFailed: "生成概念图失败",
		ExistsFailed:        "检查分镜头脚本失败",
		ReorderFailed:       "重新排序场景失败",
		VideoInfoFailed:     "更新视频信息失败",
	}
}

func withDefaults(m Messages) Messages {
	d := DefaultMessages()
	type field struct {
		dst *string
		def string
	}
	for _, f := range []field{
		{&m.FetchFailed, d.FetchFailed},
		{&m.GenerateFailed, d.GenerateFailed},
		{&m.CreateFailed, d.CreateFailed},
		{&m.UpdateFailed, d.UpdateFailed},
		{&m.DeleteFailed, d.DeleteFailed},
		{&m.Deleted, d.Deleted},
		{&m.ScriptFailed, d.ScriptFailed},
		{&m.ImagePromptFailed, d.ImagePromptFailed},
		{&m.VideoPromptFailed, d.VideoPromptFailed},
		{&m.ConceptImageFailed, d.ConceptImageFailed},
		{&m.RegenerateFailed, d.RegenerateFailed},
		{&m.AIPromptsFailed, d.AIPromptsFailed},
		{&m.GenerateImageFailed, d.GenerateImageFailed},
		{&m.ExistsFailed, d.ExistsFailed},
		{&m.ReorderFailed, d.ReorderFailed},
		{&m.VideoInfoFailed, d.VideoInfoFailed},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	return m
}

const basePath = "/storyboards"

// Client calls the storyboards endpoints.
type Client struct {
	api *api.Client
	msg Messages
}

// New returns a Client. Empty messages fall back to DefaultMessages.
func New(c *api.Client, msg Messages) *Client {
	return &Client{api: c, msg: withDefaults(msg)}
}

func itemPath(id int64, suffix string) string {
	return basePath + "/" + strconv.FormatInt(id, 10) + suffix
}

func storyPath(prefix string, storyID int64, suffix string) string {
	return basePath + prefix + strconv.FormatInt(storyID, 10) + suffix
}

func call[T any](ctx context.Context, c *Client, method, path string, in any, fallback string) result.Result[T] {
	var out T
	if err := c.api.Do(ctx, method, path, nil, in, &out); err != nil {
		return api.Fail[T](err, fallback)
	}
	return result.OK(out)
}

// ByStory lists the scenes of a story.
func (c *Client) ByStory(ctx context.Context, storyID int64) result.Result[[]Storyboard] {
	return call[[]Storyboard](ctx, c, http.MethodGet, storyPath("/story/", storyID, ""), nil, c.msg.FetchFailed)
}

// Generate asks the server to derive scenes from the story text.
func (c *Client) Generate(ctx context.Context, storyID int64) result.Result[[]Storyboard] {
	return call[[]Storyboard](ctx, c, http.MethodPost, storyPath("/generate/", storyID, ""), nil, c.msg.GenerateFailed)
}

// Create stores a new scene.
func (c *Client) Create(ctx context.Context, sb Storyboard) result.Result[Storyboard] {
	return call[Storyboard](ctx, c, http.MethodPost, basePath, sb, c.msg.CreateFailed)
}

// Update replaces scene id.
func (c *Client) Update(ctx context.Context, id int64, sb Storyboard) result.Result[Storyboard] {
	return call[Storyboard](ctx, c, http.MethodPut, itemPath(id, ""), sb, c.msg.UpdateFailed)
}

// Delete removes scene id.
func (c *Client) Delete(ctx context.Context, id int64) result.Result[struct{}] {
	if err := c.api.Delete(ctx, itemPath(id, ""), nil); err != nil {
		return api.Fail[struct{}](err, c.msg.DeleteFailed)
	}
	return result.OKWithMessage(struct{}{}, c.msg.Deleted)
}

// UpdateScript replaces the scene's script text.
func (c *Client) UpdateScript(ctx context.Context, id int64, script string) result.Result[Storyboard] {
	body := map[string]string{"script": script}
	return call[Storyboard](ctx, c, http.MethodPut, itemPath(id, "/script"), body, c.msg.ScriptFailed)
}

// UpdateImagePrompt replaces the text-to-image prompt.
func (c *Client) UpdateImagePrompt(ctx context.Context, id int64, prompt string) result.Result[Storyboard] {
	body := map[string]string{"imagePrompt": prompt}
	return call[Storyboard](ctx, c, http.MethodPut, itemPath(id, "/image-prompt"), body, c.msg.ImagePromptFailed)
}

// UpdateVideoPrompt replaces the image-to-video prompt.
func (c *Client) UpdateVideoPrompt(ctx context.Context, id int64, prompt string) result.Result[Storyboard] {
	body := map[string]string{"videoPrompt": prompt}
	return call[Storyboard](ctx, c, http.MethodPut, itemPath(id, "/video-prompt"), body, c.msg.VideoPromptFailed)
}

// UpdateConceptImage sets the concept image URL.
func (c *Client) UpdateConceptImage(ctx context.Context, id int64, imageURL string) result.Result[Storyboard] {
	body := map[string]string{"conceptImage": imageURL}
	return call[Storyboard](ctx, c, http.MethodPut, itemPath(id, "/concept-image"), body, c.msg.ConceptImageFailed)
}

// UpdateVideo records the generated video URL and its status.
func (c *Client) UpdateVideo(ctx context.Context, id int64, videoURL, status string) result.Result[Storyboard] {
	body := map[string]string{"videoUrl": videoURL, "status": status}
	return call[Storyboard](ctx, c, http.MethodPut, itemPath(id, "/video"), body, c.msg.VideoInfoFailed)
}

// RegeneratePrompts asks the server to rewrite both prompts of a scene.
func (c *Client) RegeneratePrompts(ctx context.Context, id int64) result.Result[Storyboard] {
	return call[Storyboard](ctx, c, http.MethodPost, itemPath(id, "/regenerate-prompts"), nil, c.msg.RegenerateFailed)
}

// GenerateAIPrompts asks the server's model for fresh image and video prompts.
func (c *Client) GenerateAIPrompts(ctx context.Context, id int64) result.Result[Storyboard] {
	return call[Storyboard](ctx, c, http.MethodPost, itemPath(id, "/generate-ai-prompts"), nil, c.msg.AIPromptsFailed)
}

// GenerateConceptImage asks the server to render the scene's concept image.
func (c *Client) GenerateConceptImage(ctx context.Context, id int64) result.Result[Storyboard] {
	return call[Storyboard](ctx, c, http.MethodPost, itemPath(id, "/generate-concept-image"), nil, c.msg.GenerateImageFailed)
}

// Exists reports whether a story already has scenes. Use result.Exists to
// tell "no" from "unknown".
func (c *Client) Exists(ctx context.Context, storyID int64) result.Result[bool] {
	var out struct {
		Exists bool `json:"exists"`
	}
	if err := c.api.Get(ctx, storyPath("/exists/", storyID, ""), nil, &out); err != nil {
		return api.Fail[bool](err, c.msg.ExistsFailed)
	}
	return result.OK(out.Exists)
}

// Reorder renumbers a story's scenes consecutively.
func (c *Client) Reorder(ctx context.Context, storyID int64) result.Result[[]Storyboard] {
	return call[[]Storyboard](ctx, c, http.MethodPut, storyPath("/story/", storyID, "/reorder"), nil, c.msg.ReorderFailed)
}
