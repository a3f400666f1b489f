package view

// このファイルはブログのページテンプレートに相当するインメモリページを組み立てる。
// ナビゲーションと記事コンテナの固定ID構成はバックエンドのHTMLテンプレートと一致させる。

// navAndFooterNodes は全ページ共通のナビゲーションとフッターを生成する。
// login/admin/logoutリンクの初期状態は非表示で、コントローラーの
// 初期化ルーチンが認証状態に応じて表示を切り替える。
func navAndFooterNodes() []*Node {
	home := NewNode("nav-home").WithTranslationKey("nav_home")
	home.SetHref("/")
	blog := NewNode("nav-blog").WithTranslationKey("nav_blog")
	blog.SetHref("/blog")
	login := NewNode(IDLoginLink).WithTranslationKey("nav_login").Hidden()
	login.SetHref("/login")
	admin := NewNode(IDAdminLink).WithTranslationKey("nav_admin").Hidden()
	admin.SetHref("/admin")
	logout := NewNode(IDLogoutLink).WithTranslationKey("nav_logout").Hidden()

	return []*Node{
		home,
		blog,
		login,
		admin,
		logout,
		NewNode("footer-description").WithTranslationKey("footer_description"),
		NewNode("footer-copyright").WithTranslationKey("footer_copyright"),
	}
}

// NewListPage は記事一覧ページを生成する。
func NewListPage() *Page {
	nodes := navAndFooterNodes()
	nodes = append(nodes, NewNode(IDPostsContainer))
	return NewPage(nodes...)
}

// NewDetailPage は記事詳細ページを生成する。
func NewDetailPage() *Page {
	back := NewNode("back-btn").WithClass(ClassBackButton).WithTranslationKey("back_to_posts")
	back.SetHref("/blog")
	edit := NewNode(IDEditPostBtn).Hidden()

	nodes := navAndFooterNodes()
	nodes = append(nodes,
		back,
		// タイトルと本文の初期表示はロード中プレースホルダー。
		// レンダリング完了時にコントローラーが実内容で上書きする。
		NewNode(IDPostTitle).WithTranslationKey("loading_post"),
		NewNode(IDPostDate),
		NewNode(IDPostContent).WithTranslationKey("loading_content"),
		NewNode(IDPostContainer),
		edit,
	)
	return NewPage(nodes...)
}
