package help

const QuickstartYAML = `# mr-wordcount Quick Start

config:
  file: "config.yaml (optional, --config to change)"
  env:
    WC_DB_DRIVER: "mysql (default) | sqlite"
    DB_HOST: "MySQL host"
    DB_USER: "MySQL user"
    DB_PASSWORD: "MySQL password"
    DB_NAME: "MySQL database"
    DB_PORT: "MySQL port (default 3306)"
    WC_DB_PATH: "SQLite file when WC_DB_DRIVER=sqlite"
    WC_ADDR: "HTTP listen address (default :8000)"
    WC_BATCH_SIZE: "tokens per map chunk (default 800)"
    WC_ATOMIC: "true = map and reduce in one transaction"

http:
  health: |
    curl localhost:8000/health
  run: |
    curl -X POST localhost:8000/run -d '{"text": "the cat sat on the mat"}'
  result: |
    curl 'localhost:8000/result/<job_id>?top=3'

commands:
  serve: |
    mr-wordcount serve --addr :8000

  run_text: |
    mr-wordcount run --text "the cat sat on the mat the cat ran"

  run_page: |
    mr-wordcount run --url "https://example.com" --cache-dir .pages

  result: |
    mr-wordcount result --top 3 <job_id>

  local_count: |
    cat book.txt | mr-wordcount count --top 25

  schema: |
    mr-wordcount db init

  cleanup_failed_job: |
    mr-wordcount db drop-job <job_id>
`
