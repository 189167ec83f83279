package router

// Route describes one navigable location.
type Route struct {
	Path          string
	Name          string
	View          string
	Title         string
	RequiresAuth  bool
	RequiresGuest bool
	// Redirect sends every match to another path instead of showing a view.
	Redirect string
}

// Route names used by the default table.
const (
	NameHome            = "Home"
	NameLogin           = "Login"
	NameRegister        = "Register"
	NameStories         = "StoryPage"
	NameStoryboard      = "StoryboardPage"
	NameVideoGeneration = "VideoGenerationPage"
	NameFinalVideo      = "FinalVideoPage"
	NameMyScripts       = "MyScriptsPage"
	NameMyWorks         = "MyWorksPage"
)

// DefaultBaseTitle is appended to every page title.
const DefaultBaseTitle = "AI短片制作助手"

// DefaultRoutes returns the application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Name: NameHome, View: "Home", Title: "视频发现", RequiresAuth: true},
		{Path: "/login", Name: NameLogin, View: "Login", Title: "登录", RequiresGuest: true},
		{Path: "/register", Name: NameRegister, View: "Register", Title: "注册", RequiresGuest: true},
		{Path: "/stories", Name: NameStories, View: "StoryPage", Title: "故事梗概", RequiresAuth: true},
		{Path: "/storyboard", Name: NameStoryboard, View: "StoryboardPage", Title: "分镜头脚本", RequiresAuth: true},
		{Path: "/video-generation", Name: NameVideoGeneration, View: "VideoGenerationPage", Title: "图生视频", RequiresAuth: true},
		{Path: "/final-video", Name: NameFinalVideo, View: "FinalVideoPage", Title: "最终作品", RequiresAuth: true},
		{Path: "/my-scripts", Name: NameMyScripts, View: "MyScriptsPage", Title: "我的脚本", RequiresAuth: true},
		{Path: "/my-works", Name: NameMyWorks, View: "MyWorksPage", Title: "我的作品", RequiresAuth: true},
		{Path: "/*", Redirect: "/"},
	}
}
