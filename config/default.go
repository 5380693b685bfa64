package config

// DefaultConfigYAML 内置默认配置
// 外部 config.yaml 与 ACCT_ 前缀环境变量可逐项覆盖。
var DefaultConfigYAML = []byte(`
server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "accounting"
  password: "accounting"
  dbname: "accounting"
  charset: "utf8mb4"

jwt:
  secret: "change-me-in-production"
  expire_hours: 24

email:
  enabled: false
  host: "smtp.example.com"
  port: 465
  username: ""
  password: ""
  from: "事务所内部系统"

report:
  recipients: []
`)

// SafeErrorMessage 生产环境（release 模式）下隐藏内部错误详情，
// 开发环境返回原始错误便于排查。
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
