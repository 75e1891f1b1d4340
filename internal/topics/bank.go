package topics

import "github.com/abhisek/intervu/internal/memory"

// questionBank is the static (topic, difficulty) → questions pool. Content
// is RU, matching the trainer's interview language.
var questionBank = map[string]map[memory.Difficulty][]string{
	"go": {
		memory.DifficultyEasy: {
			"Что такое goroutine и чем она отличается от потока?",
			"Чем отличается slice от array в Go?",
			"Как устроены ошибки в Go и как принято их обрабатывать?",
			"Что такое map в Go и какие есть ограничения по ключам?",
		},
		memory.DifficultyMedium: {
			"Что такое interface в Go? Как проверяется соответствие интерфейсу?",
			"Как работает channel: буферизованный vs небуферизованный? Пример, когда выбрать каждый.",
			"Что такое context в Go и зачем он нужен (timeouts/cancel)?",
			"Какие типичные причины data race и как их находить/исправлять?",
		},
		memory.DifficultyHard: {
			"Как бы ты спроектировал(а) worker pool в Go? Какие edge-cases учтёшь?",
			"Как устроена сборка мусора в Go и как она влияет на latency?",
			"Какие проблемы бывают при высоких нагрузках в Go (GC, contention, IO) и как диагностировать?",
		},
	},
	"python": {
		memory.DifficultyEasy: {
			"Чем list отличается от dict?",
			"Как работают исключения (try/except)?",
			"Что такое virtualenv/venv и зачем он нужен?",
		},
		memory.DifficultyMedium: {
			"Что такое iterator/iterable? Приведи пример.",
			"Что такое GIL и как он влияет на многопоточность?",
			"Чем отличается multiprocessing от threading в Python?",
		},
		memory.DifficultyHard: {
			"Когда выбирать async/await и какие типичные ошибки в async-коде?",
			"Как устроен garbage collector в Python на верхнем уровне?",
		},
	},
	"sql": {
		memory.DifficultyEasy: {
			"Что такое первичный ключ и индекс? Зачем индекс нужен?",
			"Чем JOIN отличается от UNION?",
			"Что такое нормализация данных и зачем она нужна (в 1-2 предложениях)?",
		},
		memory.DifficultyMedium: {
			"INNER JOIN vs LEFT JOIN — в чём разница? Приведи пример запроса.",
			"Что такое транзакция и уровни изоляции? Чем опасны dirty read/phantom read?",
			"Как работает составной индекс и как его правильно выбрать?",
		},
		memory.DifficultyHard: {
			"Как бы ты оптимизировал(а) медленный запрос? Какие шаги (EXPLAIN/ANALYZE, индексы, переписывание)?",
			"Что такое deadlock и как его диагностировать/минимизировать?",
		},
	},
	"http": {
		memory.DifficultyEasy: {
			"Чем отличается GET от POST?",
			"Что означает код ответа 404 и 500?",
			"Что такое headers и для чего они нужны?",
		},
		memory.DifficultyMedium: {
			"Что такое идемпотентность? Какие HTTP-методы идемпотентны?",
			"Что такое CORS и зачем он нужен?",
			"Как работает авторизация через JWT на высоком уровне?",
		},
		memory.DifficultyHard: {
			"Как работает HTTP-кеширование (ETag/Cache-Control) и какие подводные камни бывают?",
			"Как бы ты ограничивал(а) rate limit на API? Где хранить состояние?",
		},
	},
	"docker": {
		memory.DifficultyEasy: {
			"Что такое Docker image и container?",
			"Для чего нужен Dockerfile?",
			"В чём разница между COPY и ADD?",
		},
		memory.DifficultyMedium: {
			"CMD vs ENTRYPOINT — в чём разница и когда что использовать?",
			"Как работает сеть в Docker (bridge/host) на базовом уровне?",
			"Как бы ты уменьшил(а) размер образа (multi-stage build, slim base)?",
		},
		memory.DifficultyHard: {
			"Как бы ты построил(а) CI/CD пайплайн с Docker для микросервисов? Какие шаги?",
			"Какие риски безопасности контейнеров и как их снижать (least privilege, scanning)?",
		},
	},
	"kubernetes": {
		memory.DifficultyEasy: {
			"Что такое Pod и Deployment в Kubernetes?",
			"Зачем нужны Service и Ingress?",
		},
		memory.DifficultyMedium: {
			"Что такое readiness/liveness probes и зачем они нужны?",
			"Как бы ты раскатывал(а) обновления без даунтайма (rolling update)?",
		},
		memory.DifficultyHard: {
			"Какие причины CrashLoopBackOff и как ты бы отлаживал(а)?",
			"Как бы ты организовал(а) observability (logs/metrics/traces) в k8s?",
		},
	},
	"git": {
		memory.DifficultyEasy: {
			"Чем отличаются merge и rebase?",
			"Как откатить последний коммит (разные варианты)?",
		},
		memory.DifficultyMedium: {
			"Что такое cherry-pick и когда он уместен?",
			"Как решать конфликт при merge? Какой порядок действий?",
		},
		memory.DifficultyHard: {
			"Как бы ты настроил(а) git-flow или trunk-based development и почему?",
		},
	},
	"linux": {
		memory.DifficultyEasy: {
			"Как посмотреть занятый порт и кто его слушает?",
			"Что делает команда grep и как ей искать по логам?",
		},
		memory.DifficultyMedium: {
			"Как бы ты нашёл(а) причину высокой нагрузки на CPU/Memory на сервере?",
			"Что такое permissions (chmod) и почему 644/755 отличаются?",
		},
		memory.DifficultyHard: {
			"Как бы ты диагностировал(а) утечки файловых дескрипторов/сетевых соединений?",
		},
	},
}

// genericBank is the last-resort pool when every topic is exhausted.
var genericBank = map[memory.Difficulty][]string{
	memory.DifficultyEasy: {
		"Расскажи про свой последний проект: что делал(а) лично ты?",
		"Опиши типичный баг, который ты находил(а), и как ты его исправил(а).",
	},
	memory.DifficultyMedium: {
		"Как ты дебажишь проблему в проде: какие шаги предпринимаешь?",
		"Что для тебя важнее: читаемость или производительность? Приведи пример компромисса.",
	},
	memory.DifficultyHard: {
		"Как бы ты спроектировал(а) сервис под высокую нагрузку: компоненты и компромиссы?",
		"Расскажи про случай, когда пришлось менять архитектуру. Что было до/после?",
	},
}

// BankQuestions returns the static pool for (topic, difficulty).
func BankQuestions(topic string, difficulty memory.Difficulty) []string {
	return questionBank[topic][difficulty]
}

// GenericQuestions returns the generic pool for difficulty, falling back to
// the easy pool for unknown ranks.
func GenericQuestions(difficulty memory.Difficulty) []string {
	if qs, ok := genericBank[difficulty]; ok {
		return qs
	}
	return genericBank[memory.DifficultyEasy]
}
