package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandBrowse は対話モードで起動することを示す。
	CommandBrowse Command = "browse"
	// CommandPosts は記事一覧を1回レンダリングして終了することを示す。
	CommandPosts Command = "posts"
	// CommandPost は指定IDの記事詳細を1回レンダリングして終了することを示す。
	CommandPost Command = "post"
	// CommandLang は表示言語の確認・切り替えを示す。
	CommandLang Command = "lang"
	// CommandLogout は保存済みクレデンシャルの削除を示す。
	CommandLogout Command = "logout"
	// CommandHealthcheck はバックエンドAPIの疎通確認を示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドと残りの引数を解析する。
// 引数が空またはサポート外のコマンドの場合はCommandBrowseを返す。
func ParseCommand(args []string) (Command, []string) {
	if len(args) == 0 {
		return CommandBrowse, nil
	}

	switch args[0] {
	case "browse":
		return CommandBrowse, args[1:]
	case "posts":
		return CommandPosts, args[1:]
	case "post":
		return CommandPost, args[1:]
	case "lang":
		return CommandLang, args[1:]
	case "logout":
		return CommandLogout, args[1:]
	case "healthcheck":
		return CommandHealthcheck, args[1:]
	default:
		return CommandBrowse, args
	}
}
